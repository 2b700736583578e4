package export

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// WriteQualityYAML renders the data quality report as YAML.
func WriteQualityYAML(w io.Writer, report model.QualityReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return eris.Wrap(err, "export: encode quality report")
	}
	return eris.Wrap(enc.Close(), "export: close yaml encoder")
}
