// Package format renders currency amounts for reports.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Dutch)

// Euro returns an amount with a euro sign and Dutch separators (e.g., "-€1.234,56").
func Euro(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-€" + formatted
	}
	return "€" + formatted
}

// WholeEuro drops the cents, for amounts already rounded to whole units (e.g., "€325.000").
func WholeEuro(amount float64) string {
	formatted := printer.Sprintf("%.0f", math.Abs(amount))
	if amount < 0 {
		return "-€" + formatted
	}
	return "€" + formatted
}

// Numeric returns a plain machine-readable amount with two decimals.
func Numeric(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
