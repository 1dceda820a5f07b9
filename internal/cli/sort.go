package cli

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available standings orders
type SortOrder string

const (
	SortByRoster SortOrder = "roster"
	SortByTotal  SortOrder = "total"
	SortByName   SortOrder = "name"
)

// parseSortOrder validates a --sort value
func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByRoster, SortByTotal, SortByName:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'roster', 'total' or 'name')", s)
	}
}

// sortStandings orders standings in place. Roster order leaves them untouched.
func sortStandings(rows []StandingRow, order SortOrder) {
	switch order {
	case SortByTotal:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Weekend != rows[j].Weekend {
				return rows[i].Weekend > rows[j].Weekend
			}
			// Equal totals: more race points first
			return rows[i].Race > rows[j].Race
		})
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	}
}
