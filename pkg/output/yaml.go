package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormat dumps the resolved parameters, results and capacity summaries.
func YAMLFormat(w io.Writer, report Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return err
	}
	return encoder.Close()
}
