package stats

import (
	"github.com/pfrederiksen/gtg-stats/internal/score"
)

// Value is one cell of a summary row. Integer statistics leave Float zero and set IsFloat
// to false.
type Value struct {
	Int     int
	Float   float64
	IsFloat bool
}

// SummaryRow holds one statistic for every roster player, keyed by handle
type SummaryRow struct {
	Kind   score.SummaryKind
	Values map[string]Value
}

// Summary is every statistic of a season, per column and player
type Summary struct {
	rows       map[score.Column][]SummaryRow
	cumulative map[score.Column]map[string][]int
}

// Summarize computes the scalar summary rows (Minimum, Maximum, Variance, StdDev, Total, in
// that order) and the cumulative series for every column and roster player.
// A season without races cannot be summarized.
func Summarize(season *score.Season, roster score.Roster) (*Summary, error) {
	if season == nil || len(season.Races) == 0 {
		return nil, &AggregationError{Kind: score.Minimum, Err: ErrEmptySeries}
	}

	s := &Summary{
		rows:       make(map[score.Column][]SummaryRow),
		cumulative: make(map[score.Column]map[string][]int),
	}

	for _, column := range score.Columns() {
		rows := make([]SummaryRow, 0, len(score.ScalarKinds()))
		for _, kind := range score.ScalarKinds() {
			rows = append(rows, SummaryRow{Kind: kind, Values: make(map[string]Value, len(roster))})
		}
		cumulative := make(map[string][]int, len(roster))

		for _, p := range roster {
			series := season.Series(p.Handle, column)
			for i, kind := range score.ScalarKinds() {
				v, err := compute(kind, series)
				if err != nil {
					return nil, &AggregationError{Kind: kind, Handle: p.Handle, Column: column, Err: err}
				}
				rows[i].Values[p.Handle] = v
			}
			cumulative[p.Handle] = Cumulative(series)
		}

		s.rows[column] = rows
		s.cumulative[column] = cumulative
	}

	return s, nil
}

func compute(kind score.SummaryKind, series []int) (Value, error) {
	switch kind {
	case score.Minimum:
		v, err := Minimum(series)
		return Value{Int: v}, err
	case score.Maximum:
		v, err := Maximum(series)
		return Value{Int: v}, err
	case score.Variance:
		v, err := Variance(series)
		return Value{Float: v, IsFloat: true}, err
	case score.StdDev:
		v, err := StdDev(series)
		return Value{Float: v, IsFloat: true}, err
	default:
		return Value{Int: Total(series)}, nil
	}
}

// Rows returns the scalar summary rows of a column in display order
func (s *Summary) Rows(column score.Column) []SummaryRow {
	return s.rows[column]
}

// Row returns a single summary row of a column
func (s *Summary) Row(column score.Column, kind score.SummaryKind) (SummaryRow, bool) {
	for _, r := range s.rows[column] {
		if r.Kind == kind {
			return r, true
		}
	}
	return SummaryRow{}, false
}

// Cumulative returns a player's running totals for a column, one entry per race
func (s *Summary) Cumulative(column score.Column, handle string) []int {
	return s.cumulative[column][handle]
}

// Standing is a player's season total for a column
type Standing struct {
	Player score.Player `json:"player"`
	Total  int          `json:"total"`
}

// Standings returns every roster player's total for a column, in roster order
func (s *Summary) Standings(column score.Column, roster score.Roster) []Standing {
	totals, _ := s.Row(column, score.Total)
	standings := make([]Standing, 0, len(roster))
	for _, p := range roster {
		standings = append(standings, Standing{Player: p, Total: totals.Values[p.Handle].Int})
	}
	return standings
}
