// Package units formats physical quantities for display.
package units

import (
	"fmt"
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// FormatDistance renders metres with a k/M/G prefix and two decimals:
// "999.00 m", "3.16 km", "12.00 Mm", "250.00 Gm". Giga is the largest
// prefix used, so very large values stay in Gm.
func FormatDistance(meters float64) string {
	v, prefix := scale(meters)
	return fmt.Sprintf("%.2f %sm", v, prefix)
}

// FormatSI renders a bare quantity like FormatDistance without the unit:
// "5.00 k", "42.00".
func FormatSI(x float64) string {
	v, prefix := scale(x)
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", v, prefix))
}

// FormatPercent renders a [0,1] fraction as "97.3 %".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f %%", 100*fraction)
}

func scale(x float64) (float64, string) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return x, ""
	case x >= 1e9:
		return x / 1e9, "G"
	case x >= 1e3:
		return humanize.ComputeSI(x)
	default:
		return x, ""
	}
}
