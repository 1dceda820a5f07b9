package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pfrederiksen/gtg-stats/internal/score"
	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

const (
	// RaceHeader labels the first column of every table
	RaceHeader = "Race"
	// TableCSSClass is the class of every rendered table
	TableCSSClass = "gtg-table"
)

// Table is one score column laid out as rows of formatted cells: the race rows first, the
// summary rows after them
type Table struct {
	Column score.Column
	Header []string
	Rows   [][]string
}

// BuildTable lays out a score column. The header holds the roster display names in roster
// order.
func BuildTable(column score.Column, season *score.Season, summary *stats.Summary, roster score.Roster) Table {
	t := Table{
		Column: column,
		Header: append([]string{RaceHeader}, roster.Names()...),
		Rows:   make([][]string, 0, len(season.Races)+len(score.ScalarKinds())),
	}

	for _, race := range season.Races {
		row := make([]string, 0, len(roster)+1)
		row = append(row, race.Key)
		for _, p := range roster {
			row = append(row, FormatInt(race.Scores[p.Handle].Value(column)))
		}
		t.Rows = append(t.Rows, row)
	}

	for _, summaryRow := range summary.Rows(column) {
		row := make([]string, 0, len(roster)+1)
		row = append(row, summaryRow.Kind.String())
		for _, p := range roster {
			row = append(row, FormatValue(summaryRow.Values[p.Handle]))
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// Writer returns a go-pretty writer holding the table, for HTML or terminal rendering
func (t Table) Writer() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().HTML.CSSClass = TableCSSClass

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, cells := range t.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}

	return tw
}

// HTML renders the table as an HTML <table> with escaped cell text
func (t Table) HTML() string {
	return t.Writer().RenderHTML()
}
