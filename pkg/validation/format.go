// Package validation checks calculation inputs and user-facing settings
// before they reach the calculators.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/hypotheek/pkg/constants"
)

// OutputFormats lists the renderings every report command supports.
var OutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ParseOutputFormat normalizes a value from --output-format or the
// output.format key. Case and surrounding space are ignored; empty selects
// the pretty report.
func ParseOutputFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))
	switch format {
	case "":
		return constants.OutputFormatPretty, nil
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format %q, expected one of %s", s, strings.Join(OutputFormats, ", "))
}
