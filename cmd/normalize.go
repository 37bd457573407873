package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/model"
	"github.com/seaward-group/laytime-cli/internal/ocr"
	"github.com/seaward-group/laytime-cli/internal/sof"
)

var (
	normalizeFloor    float64
	normalizeFromJSON bool
	normalizeSave     bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <document>",
	Short: "Normalize one SOF document into a clean event timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := args[0]

		items, err := extractLines(ctx, path)
		if err != nil {
			return err
		}

		floor := normalizeFloor
		if !cmd.Flags().Changed("floor") {
			floor = cfg.Normalize.ConfidenceFloor
		}

		result := sof.Normalize(items, floor)

		if normalizeSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec, err := st.SaveExtraction(ctx, filepath.Base(path), len(items), result)
			if err != nil {
				return err
			}
			zap.L().Info("extraction saved", zap.String("id", rec.ID))
		}

		return printJSON(result)
	},
}

func init() {
	normalizeCmd.Flags().Float64Var(&normalizeFloor, "floor", sof.DefaultConfidenceFloor, "confidence floor for event filtering")
	normalizeCmd.Flags().BoolVar(&normalizeFromJSON, "json", false, "input is an OCR payload JSON file, not a document")
	normalizeCmd.Flags().BoolVar(&normalizeSave, "save", false, "persist the extraction to the store")
	rootCmd.AddCommand(normalizeCmd)
}

// extractLines turns the input into raw line items: either through the
// configured OCR extractor or by decoding an already-extracted payload.
func extractLines(ctx context.Context, path string) ([]model.RawLineItem, error) {
	if normalizeFromJSON {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ocr.DecodePayload(data)
	}

	ex, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, err
	}
	return ex.ExtractLines(ctx, path)
}
