// Package currency formats salary figures for display.
package currency

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Format renders v as dollars with thousands separators and two decimals,
// e.g. $52,340.75.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
