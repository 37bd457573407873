package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/canonical"
	"github.com/seaward-group/laytime-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "laytime-cli",
	Short: "Statement-of-facts normalization and laytime calculation",
	Long:  "Turns OCR output of SOF documents into a clean event timeline, classifies events into a canonical taxonomy, and computes laytime, demurrage and despatch.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if cfg.Canonical.RulesPath != "" {
			m, err := canonical.LoadMapper(cfg.Canonical.RulesPath)
			if err != nil {
				return fmt.Errorf("load canonical rules: %w", err)
			}
			canonical.ReplaceDefault(m)
			zap.L().Info("canonical rules overridden", zap.String("path", cfg.Canonical.RulesPath))
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
