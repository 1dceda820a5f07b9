package report

import (
	"fmt"
	"strconv"

	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

// FormatInt renders an integer score as-is
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatFloat renders a fractional statistic with two decimals, zero-padded to at least
// three integer digits (7.42 -> "007.42")
func FormatFloat(v float64) string {
	return fmt.Sprintf("%06.2f", v)
}

// FormatValue renders a summary cell
func FormatValue(v stats.Value) string {
	if v.IsFloat {
		return FormatFloat(v.Float)
	}
	return FormatInt(v.Int)
}
