package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/export"
	"github.com/seaward-group/laytime-cli/internal/laytime"
	"github.com/seaward-group/laytime-cli/internal/model"
)

// snapshotRequest is the claim context decoded from the input file or
// HTTP body.
type snapshotRequest struct {
	Claim      model.Claim          `json:"claim"`
	Events     []model.ClaimEvent   `json:"events,omitempty"`
	Siblings   []model.SiblingClaim `json:"siblings,omitempty"`
	Deductions []model.Adjustment   `json:"deductions,omitempty"`
	Additions  []model.Adjustment   `json:"additions,omitempty"`
}

var (
	snapshotXLSX string
	snapshotSave bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <claim.json>",
	Short: "Compute a laytime snapshot for one claim",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var req snapshotRequest
		if err := readJSONFile(args[0], &req); err != nil {
			return err
		}

		snap := laytime.ComputeSnapshot(req.Claim, req.Events, req.Siblings, req.Deductions, req.Additions)

		if snapshotXLSX != "" {
			if err := export.WriteSnapshotXLSX(snapshotXLSX, req.Claim.PortCallRef, snap); err != nil {
				return err
			}
			zap.L().Info("snapshot exported", zap.String("path", snapshotXLSX))
		}

		if snapshotSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec, err := st.SaveSnapshot(ctx, req.Claim.PortCallRef, snap)
			if err != nil {
				return err
			}
			zap.L().Info("snapshot saved", zap.String("id", rec.ID))
		}

		return printJSON(snap)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotXLSX, "xlsx", "", "also write the snapshot to an XLSX workbook")
	snapshotCmd.Flags().BoolVar(&snapshotSave, "save", false, "persist the snapshot to the store")
	rootCmd.AddCommand(snapshotCmd)
}
