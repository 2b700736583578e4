package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <workbook.xlsx>",
	Short: "Load applicant and employee records from an Excel workbook",
	Long:  "Parses the applicants, employees, and employment type sheets, validates each row, and upserts the valid records into the store. Rejected rows are reported and skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		batch, rowErrs, err := ingest.ReadWorkbook(args[0], ingest.Options{
			ApplicantsSheet: cfg.Ingest.ApplicantsSheet,
			EmployeesSheet:  cfg.Ingest.EmployeesSheet,
			TypesSheet:      cfg.Ingest.TypesSheet,
		})
		if err != nil {
			return eris.Wrap(err, "ingest")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		counts, err := st.UpsertRecords(ctx, batch)
		if err != nil {
			return eris.Wrap(err, "ingest")
		}

		zap.L().Info("ingest complete",
			zap.Int("applicants", counts.Applicants),
			zap.Int("employees", counts.Employees),
			zap.Int("employment_types", counts.EmploymentTypes),
			zap.Int("rejected_rows", len(rowErrs)),
		)

		fmt.Printf("Loaded %d applicants, %d employees, %d employment types.\n",
			counts.Applicants, counts.Employees, counts.EmploymentTypes)
		if len(rowErrs) > 0 {
			fmt.Fprintf(os.Stderr, "Rejected %d rows:\n", len(rowErrs))
			for _, re := range rowErrs {
				fmt.Fprintf(os.Stderr, "  %s\n", re)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
