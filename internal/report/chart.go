package report

import (
	"github.com/pfrederiksen/gtg-stats/internal/score"
	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

// Dataset is one line of a chart. Field names follow the Chart.js dataset options.
type Dataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
	Fill  bool   `json:"fill"`
}

// Chart is a line chart of cumulative points over the races of a season
type Chart struct {
	ID       string
	Title    string
	Labels   []string
	Datasets []Dataset
}

// BuildChart plots every roster player's cumulative points for a column, one dataset per
// player in roster order
func BuildChart(column score.Column, season *score.Season, summary *stats.Summary, roster score.Roster) Chart {
	c := Chart{
		ID:       column.Slug() + "-chart",
		Title:    "Cumulative " + column.String() + " points",
		Labels:   season.Keys(),
		Datasets: make([]Dataset, 0, len(roster)),
	}

	for _, p := range roster {
		c.Datasets = append(c.Datasets, Dataset{
			Label: p.Name,
			Data:  summary.Cumulative(column, p.Handle),
		})
	}

	return c
}
