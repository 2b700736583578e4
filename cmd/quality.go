package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hr-analytics-cli/internal/export"
	"github.com/sells-group/hr-analytics-cli/internal/model"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show the data quality report from the latest run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, st, err := latestRun(cmd)
		if err != nil || run == nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			return export.WriteQualityYAML(os.Stdout, run.Quality)
		case "table":
			formatQuality(os.Stdout, run.Quality)
			return nil
		default:
			return eris.Errorf("unknown format %q (want table or yaml)", format)
		}
	},
}

func formatQuality(out io.Writer, q model.QualityReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Applicants:\t%d (%d hired, %d missing department)\n",
		q.Sources.Applicants, q.Sources.ApplicantsHired, q.Sources.ApplicantsMissingDept)
	_, _ = fmt.Fprintf(w, "Employees:\t%d (%d current, %d former, %d missing department)\n",
		q.Sources.Employees, q.Sources.EmployeesCurrent, q.Sources.EmployeesFormer, q.Sources.EmployeesMissingDept)
	_, _ = fmt.Fprintf(w, "Employment type coverage:\t%.2f%%\n", q.Sources.EmploymentTypeCoverage)
	_, _ = fmt.Fprintf(w, "Employees from applications:\t%d (%.2f%%)\n",
		q.EmployeeSources.FromApplications, q.EmployeeSources.FromApplicationsPct)
	_, _ = fmt.Fprintf(w, "Direct hires / transfers:\t%d\n", q.EmployeeSources.DirectOrTransfer)
	_, _ = fmt.Fprintf(w, "Role mapping coverage:\t%d/%d (%.2f%%, %d conflicts)\n",
		q.Mappings.MappedRoles, q.Mappings.TotalRoles, q.Mappings.CoveragePct, q.Mappings.ConflictRoles)
	_ = w.Flush()

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\nSTATUS\tAPPLICANTS\tTRACED\tRATE")
	for _, s := range q.StatusTraces {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.2f%%\n", s.Status, s.Applicants, s.Traced, s.Rate)
	}
	_ = w.Flush()
}

func init() {
	qualityCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(qualityCmd)
}
