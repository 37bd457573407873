package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seaward-group/laytime-cli/internal/ocr"
	"github.com/seaward-group/laytime-cli/internal/sof"
	"github.com/seaward-group/laytime-cli/internal/store"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Normalize every SOF document in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		docs, err := listDocuments(args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			zap.L().Info("no documents found", zap.String("dir", args[0]))
			return nil
		}
		if batchLimit > 0 && len(docs) > batchLimit {
			docs = docs[:batchLimit]
		}

		ex, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return processBatch(ctx, docs, cfg.Batch.MaxConcurrentDocuments, cfg.Normalize.ConfidenceFloor, ex, st)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// listDocuments collects PDF and text documents directly under dir.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read directory %s", dir)
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			docs = append(docs, filepath.Join(dir, e.Name()))
		}
	}
	return docs, nil
}

// processBatch extracts and normalizes documents concurrently, saving
// each result. Individual document failures do not abort the batch.
func processBatch(ctx context.Context, docs []string, concurrency int, floor float64, ex ocr.Extractor, st store.Store) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(docs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, doc := range docs {
		g.Go(func() error {
			log := zap.L().With(zap.String("document", doc))

			items, err := ex.ExtractLines(gctx, doc)
			if err != nil {
				failed.Add(1)
				log.Error("extraction failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			result := sof.Normalize(items, floor)

			rec, err := st.SaveExtraction(gctx, filepath.Base(doc), len(items), result)
			if err != nil {
				failed.Add(1)
				log.Error("save failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("document normalized",
				zap.String("id", rec.ID),
				zap.Int("events", len(result.Events)),
				zap.Int("filtered_out", result.Meta.FilteredOutCount),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
