package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hr-analytics",
	Short: "HR record reconciliation and hiring analytics pipeline",
	Long:  "Loads applicant and employee records, links hires to employment records, infers role→department mappings, and publishes funnel metrics, rollups, and data quality reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
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
