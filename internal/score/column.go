package score

import (
	"fmt"
	"strings"
)

// Column selects which element of a Triple a table or chart operates over
type Column int

const (
	Qualifying Column = iota
	Race
	Weekend
)

// Columns returns every score column in report order
func Columns() []Column {
	return []Column{Qualifying, Race, Weekend}
}

func (c Column) String() string {
	switch c {
	case Qualifying:
		return "Qualifying"
	case Race:
		return "Race"
	case Weekend:
		return "Weekend"
	default:
		return fmt.Sprintf("Column(%d)", int(c))
	}
}

// Slug returns a lowercase identifier usable in HTML ids and metric labels
func (c Column) Slug() string {
	return strings.ToLower(c.String())
}

// SummaryKind identifies a statistic computed over a column
type SummaryKind int

const (
	Minimum SummaryKind = iota
	Maximum
	Variance
	StdDev
	Total
	Cumulative
)

// ScalarKinds returns the summary rows shown under the race rows, in display order.
// Cumulative is not a visible row; it feeds the charts.
func ScalarKinds() []SummaryKind {
	return []SummaryKind{Minimum, Maximum, Variance, StdDev, Total}
}

func (k SummaryKind) String() string {
	switch k {
	case Minimum:
		return "Minimum"
	case Maximum:
		return "Maximum"
	case Variance:
		return "Variance"
	case StdDev:
		return "Std. deviation"
	case Total:
		return "Total"
	case Cumulative:
		return "Cumulative"
	default:
		return fmt.Sprintf("SummaryKind(%d)", int(k))
	}
}

// IsFloat reports whether the statistic is fractional
func (k SummaryKind) IsFloat() bool {
	return k == Variance || k == StdDev
}
