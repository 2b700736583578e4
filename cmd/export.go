package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hr-analytics-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <output-dir>",
	Short: "Export the latest run's artifacts as CSV and YAML files",
	Long:  "Writes funnel.csv, rollups.csv, mappings.csv, profiles.csv, links.csv, and quality.yaml from the most recent published run into the given directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, st, err := latestRun(cmd)
		if err != nil || run == nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		dir := args[0]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}

		files := []struct {
			name  string
			write func(f *os.File) error
		}{
			{"funnel.csv", func(f *os.File) error { return export.WriteFunnelCSV(f, run.Funnel) }},
			{"rollups.csv", func(f *os.File) error { return export.WriteRollupsCSV(f, run.Rollups) }},
			{"mappings.csv", func(f *os.File) error { return export.WriteMappingsCSV(f, run.Mappings) }},
			{"profiles.csv", func(f *os.File) error { return export.WriteProfilesCSV(f, run.Profiles) }},
			{"links.csv", func(f *os.File) error { return export.WriteLinksCSV(f, run.Links) }},
			{"quality.yaml", func(f *os.File) error { return export.WriteQualityYAML(f, run.Quality) }},
		}

		for _, spec := range files {
			if err := writeArtifact(filepath.Join(dir, spec.name), spec.write); err != nil {
				return err
			}
		}

		fmt.Printf("Exported run %s to %s (%d files).\n", run.ID, dir, len(files))
		return nil
	},
}

func writeArtifact(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
