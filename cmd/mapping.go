package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect inferred role→department mappings",
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored role→department mappings",
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

		mappings, err := st.Mappings(ctx)
		if err != nil {
			return eris.Wrap(err, "mapping list")
		}

		conflictsOnly, _ := cmd.Flags().GetBool("conflicts")
		if conflictsOnly {
			var filtered []model.RoleMapping
			for _, m := range mappings {
				if m.Conflicting() {
					filtered = append(filtered, m)
				}
			}
			mappings = filtered
		}

		if len(mappings) == 0 {
			fmt.Fprintln(os.Stderr, "No mappings found.")
			return nil
		}

		formatMappings(os.Stdout, mappings)
		return nil
	},
}

var mappingValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Show consistency checks from the latest run",
	Long:  "Lists, per mapping, whether its role resolved to multiple departments and whether its department is claimed by more than one role.",
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

		run, err := st.LatestRun(ctx)
		if err != nil {
			return eris.Wrap(err, "mapping validate")
		}
		if run == nil {
			fmt.Fprintln(os.Stderr, "No published runs; run `hr-analytics run` first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ROLE\tDEPARTMENT\tMULTI_DEPT\tSHARED_DEPT\tLINKS\tDEPARTMENTS_SEEN")
		for _, v := range run.Validations {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%d\t%s\n",
				v.Role, v.Department, v.MultipleDepartments, v.SharedDepartment,
				v.LinkCount, strings.Join(v.Departments, "; "))
		}
		return w.Flush()
	},
}

func formatMappings(out io.Writer, mappings []model.RoleMapping) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROLE\tDEPARTMENT\tSTATUS\tCONFIDENCE\tDEPARTMENTS_SEEN\tUPDATED")
	for _, m := range mappings {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			m.Role, m.Department, m.Status, m.Confidence,
			strings.Join(m.Departments, "; "),
			m.UpdatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func init() {
	mappingListCmd.Flags().Bool("conflicts", false, "show only mappings with conflicting evidence")

	mappingCmd.AddCommand(mappingListCmd)
	mappingCmd.AddCommand(mappingValidateCmd)
	rootCmd.AddCommand(mappingCmd)
}
