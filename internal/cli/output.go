package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/gtg-stats/internal/score"
)

// OutputFormat specifies the standings output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// StandingRow is one player's season totals
type StandingRow struct {
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	Qualifying int    `json:"qualifying"`
	Race       int    `json:"race"`
	Weekend    int    `json:"weekend"`
}

// OutputResult contains the data printed after a run
type OutputResult struct {
	GeneratedAt time.Time     `json:"generated_at"`
	RunID       string        `json:"run_id"`
	Season      int           `json:"season"`
	Races       []string      `json:"races"`
	Report      string        `json:"report"`
	Downloaded  bool          `json:"downloaded"`
	Standings   []StandingRow `json:"standings"`
}

// NewOutputResult collects the standings of a run in roster order
func NewOutputResult(res *Result, season int, runID string, at time.Time) *OutputResult {
	out := &OutputResult{
		GeneratedAt: at.UTC(),
		RunID:       runID,
		Season:      season,
		Races:       res.Season.Keys(),
		Report:      res.ReportPath,
		Downloaded:  res.Downloaded,
		Standings:   make([]StandingRow, len(res.Roster)),
	}

	for i, p := range res.Roster {
		out.Standings[i] = StandingRow{Name: p.Name, Handle: p.Handle}
	}
	for _, column := range score.Columns() {
		for i, s := range res.Summary.Standings(column, res.Roster) {
			switch column {
			case score.Qualifying:
				out.Standings[i].Qualifying = s.Total
			case score.Race:
				out.Standings[i].Race = s.Total
			case score.Weekend:
				out.Standings[i].Weekend = s.Total
			}
		}
	}

	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "Season %d standings after %d races\n\n", result.Season, len(result.Races))

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Player", "Qualifying", "Race", "Weekend"})
	for i, s := range result.Standings {
		t.AppendRow(table.Row{i + 1, s.Name, s.Qualifying, s.Race, s.Weekend})
	}
	t.Render()

	if verbose {
		fmt.Fprintf(w, "\nRaces: %v\n", result.Races)
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
	}
	fmt.Fprintf(w, "\nReport written to %s\n", result.Report)

	return nil
}
