package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/export"
	"github.com/seaward-group/laytime-cli/internal/laytime"
	"github.com/seaward-group/laytime-cli/internal/model"
)

// prorateRequest is the voyage calculation context decoded from the
// input file or HTTP body.
type prorateRequest struct {
	Voyage           model.Voyage            `json:"voyage"`
	CharterParties   []model.CharterParty    `json:"charter_parties"`
	Cargoes          []model.Cargo           `json:"cargoes"`
	PortCalls        []model.VoyagePortCall  `json:"port_calls"`
	Activities       []model.PortActivity    `json:"activities"`
	Adjustments      []model.Adjustment      `json:"adjustments,omitempty"`
	Method           model.CalculationMethod `json:"method"`
	ReversibleGroups [][]string              `json:"reversible_groups,omitempty"`
}

func (r prorateRequest) input() laytime.CalculationInput {
	return laytime.CalculationInput{
		Voyage:           r.Voyage,
		CharterParties:   r.CharterParties,
		Cargoes:          r.Cargoes,
		PortCalls:        r.PortCalls,
		Activities:       r.Activities,
		Adjustments:      r.Adjustments,
		Method:           r.Method,
		ReversibleGroups: r.ReversibleGroups,
	}
}

var prorateXLSX string

var prorateCmd = &cobra.Command{
	Use:   "prorate <voyage.json>",
	Short: "Prorate laytime across cargoes and ports of a voyage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req prorateRequest
		if err := readJSONFile(args[0], &req); err != nil {
			return err
		}

		result := laytime.Calculate(req.input())

		if prorateXLSX != "" {
			if err := export.WriteProrationXLSX(prorateXLSX, result); err != nil {
				return err
			}
			zap.L().Info("proration exported", zap.String("path", prorateXLSX))
		}

		return printJSON(result)
	},
}

func init() {
	prorateCmd.Flags().StringVar(&prorateXLSX, "xlsx", "", "also write the proration to an XLSX workbook")
	rootCmd.AddCommand(prorateCmd)
}
