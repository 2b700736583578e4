package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hr-analytics-cli/internal/model"
	"github.com/sells-group/hr-analytics-cli/internal/store"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Inspect metrics from the latest published run",
}

var metricsFunnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Show the hiring funnel by role and effective department",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, st, err := latestRun(cmd)
		if err != nil || run == nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		formatFunnel(os.Stdout, run.Funnel)
		if len(run.GroupErrors) > 0 {
			fmt.Fprintf(os.Stderr, "%d groups failed to compute:\n", len(run.GroupErrors))
			for _, ge := range run.GroupErrors {
				fmt.Fprintf(os.Stderr, "  %s / %s: %s\n", ge.Role, ge.Department, ge.Err)
			}
		}
		return nil
	},
}

var metricsRollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Show per-department rollups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, st, err := latestRun(cmd)
		if err != nil || run == nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		formatRollups(os.Stdout, run.Rollups)
		return nil
	},
}

var metricsProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Show the per-employee master view",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, st, err := latestRun(cmd)
		if err != nil || run == nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		formatProfiles(os.Stdout, run.Profiles)
		return nil
	},
}

// latestRun opens the store and fetches the most recent published run.
// A nil run with nil error means nothing is published yet; the caller
// returns immediately.
func latestRun(cmd *cobra.Command) (*model.RunResult, store.Store, error) {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}

	run, err := st.LatestRun(ctx)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "latest run")
	}
	if run == nil {
		st.Close() //nolint:errcheck
		fmt.Fprintln(os.Stderr, "No published runs; run `hr-analytics run` first.")
		return nil, nil, nil
	}
	return run, st, nil
}

func formatFunnel(out io.Writer, funnel []model.FunnelMetric) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROLE\tDEPARTMENT\tAPPLICANTS\tHIRED\tREJECTED\tCONVERSION\tAVG_DAYS_TO_HIRE\tIN_PIPELINE")
	for _, f := range funnel {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.2f%%\t%.2f\t%d\n",
			f.Role, f.Department, f.TotalApplicants, f.HiredCount, f.RejectedCount,
			f.ConversionRate, f.AvgTimeToHireDays, f.InPipelineCount)
	}
	_ = w.Flush()
}

func formatRollups(out io.Writer, rollups []model.DepartmentRollup) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DEPARTMENT\tAPPLICANTS\tHIRED\tIN_PIPELINE\tCURRENT\tFORMER\tAVG_SALARY\tHIRE_RATE\tPIPELINE_RATIO")
	for _, r := range rollups {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f%%\t%.2f\n",
			r.Department, r.TotalApplicants, r.HiredCount, r.InPipelineCount,
			r.CurrentEmployees, r.FormerEmployees, r.AvgSalary, r.HireRate, r.PipelineToHeadcount)
	}
	_ = w.Flush()
}

func formatProfiles(out io.Writer, profiles []model.EmployeeProfile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tSTATUS\tTYPE\tAPPLIED_ROLE\tDAYS_TO_HIRE")
	for _, p := range profiles {
		days := ""
		if p.DaysToHire != nil {
			days = fmt.Sprintf("%d", *p.DaysToHire)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.EmployeeID, p.Name, p.Department, p.EmploymentStatus,
			p.EmploymentType, p.AppliedRole, days)
	}
	_ = w.Flush()
}

func init() {
	metricsCmd.AddCommand(metricsFunnelCmd)
	metricsCmd.AddCommand(metricsRollupCmd)
	metricsCmd.AddCommand(metricsProfilesCmd)
	rootCmd.AddCommand(metricsCmd)
}
