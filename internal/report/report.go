// Package report renders a season's score tables and cumulative points charts as a single
// HTML document.
//
// Tables are produced by go-pretty, which escapes cell text. Chart data are emitted as
// JavaScript literals by html/template's contextual escaping and drawn by Chart.js.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/gtg-stats/internal/score"
	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

// ChartJSURL is the charting library the report loads when charts are enabled
const ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.js"

// Options controls the document around the tables
type Options struct {
	Title       string
	Season      int
	Stylesheet  string
	Charts      bool
	RunID       string
	GeneratedAt time.Time
}

// Section is the table (and optional chart) of one score column
type Section struct {
	ID      string
	Heading string
	Table   template.HTML
	Chart   *Chart
}

// Document is a complete report ready to render
type Document struct {
	Options
	ChartJSURL string
	Sections   []Section
}

// Build assembles one section per score column, in Qualifying, Race, Weekend order
func Build(season *score.Season, summary *stats.Summary, roster score.Roster, opts Options) *Document {
	doc := &Document{
		Options:    opts,
		ChartJSURL: ChartJSURL,
		Sections:   make([]Section, 0, len(score.Columns())),
	}

	for _, column := range score.Columns() {
		section := Section{
			ID:      column.Slug(),
			Heading: column.String(),
			// go-pretty escapes every cell, so the markup can be trusted as-is.
			Table: template.HTML(BuildTable(column, season, summary, roster).HTML()),
		}
		if opts.Charts {
			chart := BuildChart(column, season, summary, roster)
			section.Chart = &chart
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Stylesheet}}
<link rel="stylesheet" href="{{.Stylesheet}}">
{{- end}}
{{- if .Charts}}
<script src="{{.ChartJSURL}}"></script>
{{- end}}
</head>
<body>
<h1>{{.Title}} {{.Season}}</h1>
{{- range .Sections}}
<section id="{{.ID}}">
<h2>{{.Heading}}</h2>
{{.Table}}
{{- with .Chart}}
<canvas id="{{.ID}}"></canvas>
<script>
new Chart(document.getElementById({{.ID}}), {
  type: "line",
  data: {labels: {{.Labels}}, datasets: {{.Datasets}}},
  options: {plugins: {title: {display: true, text: {{.Title}}}}}
});
</script>
{{- end}}
</section>
{{- end}}
<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}{{if .RunID}} &middot; run {{.RunID}}{{end}}</footer>
</body>
</html>
`))

// Render writes the document as HTML
func Render(w io.Writer, doc *Document) error {
	if err := pageTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteFile renders the document to path. The file only appears once it is complete.
func WriteFile(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if err := Render(tmp, doc); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	return nil
}
