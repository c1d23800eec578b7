package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-sim/pkg/constants"
)

// Write renders report in the named format.
func Write(w io.Writer, outputFormat string, report Report) error {
	if report.Simulation == nil {
		return fmt.Errorf("report has no simulation result")
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, report)
		return nil
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatXLSX:
		return XLSXFormat(w, report)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}
