package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tender-boq",
	Short: "Browse active tenders and their extracted bills of quantities",
	Long:  "Lists active Runway tenders, shows tender details with filterable BOQ items, and serves the same views over HTTP alongside a store of persisted tender extractions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
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
