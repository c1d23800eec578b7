// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iwvelando/loan-sim/pkg/constants"
)

// OutputFormats lists the supported report formats.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatXLSX,
	constants.OutputFormatYAML,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(OutputFormats, format) {
		return fmt.Errorf("expected output format of %s, got %s",
			strings.Join(OutputFormats, ", "), format)
	}
	return nil
}
