package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hr-analytics-cli/internal/pipeline"
	"github.com/sells-group/hr-analytics-cli/internal/resolve"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a full reconciliation run",
	Long:  "Takes a snapshot of the record store, resolves hired applicants to employees, updates role→department mappings, computes funnel metrics, rollups, profiles, and the data quality report, and publishes the result atomically.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runner := pipeline.New(st, resolve.Options{
			FoldCase:        cfg.Resolve.FoldCase,
			TrimSpace:       cfg.Resolve.TrimSpace,
			StripDiacritics: cfg.Resolve.StripDiacritics,
		}, cfg.Metrics.MaxConcurrentGroups)

		result, err := runner.Run(ctx)
		if eris.Is(err, pipeline.ErrNoData) {
			fmt.Println("Store is empty; run `hr-analytics ingest` first.")
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "run")
		}

		fmt.Printf("Run %s published: %d links, %d mappings, %d funnel groups, %d rollups.\n",
			result.ID, len(result.Links), len(result.Mappings), len(result.Funnel), len(result.Rollups))
		if len(result.GroupErrors) > 0 {
			fmt.Printf("%d metric groups failed; see `hr-analytics runs show` for details.\n", len(result.GroupErrors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
