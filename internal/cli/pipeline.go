package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/gtg-stats/internal/config"
	"github.com/pfrederiksen/gtg-stats/internal/extractor"
	"github.com/pfrederiksen/gtg-stats/internal/fetcher"
	"github.com/pfrederiksen/gtg-stats/internal/logger"
	"github.com/pfrederiksen/gtg-stats/internal/metrics"
	"github.com/pfrederiksen/gtg-stats/internal/report"
	"github.com/pfrederiksen/gtg-stats/internal/score"
	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitMissingInput   = 2
	ExitMalformedInput = 3
	ExitNoRaces        = 4
)

// Pipeline stages, used as the metrics error label
const (
	stageFetch     = "fetch"
	stageExtract   = "extract"
	stageAggregate = "aggregate"
	stageRender    = "render"
)

// ExitCode maps a run error onto the process exit code
func ExitCode(err error) int {
	var missing *fetcher.MissingInputError
	var extractErr *extractor.ExtractionError
	var aggErr *stats.AggregationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &missing):
		return ExitMissingInput
	case errors.As(err, &extractErr):
		return ExitMalformedInput
	case errors.As(err, &aggErr):
		return ExitNoRaces
	default:
		return ExitError
	}
}

// Result is everything a successful run produced
type Result struct {
	Roster     score.Roster
	Season     *score.Season
	Summary    *stats.Summary
	ReportPath string
	SourcePath string
	Downloaded bool
}

// Pipeline runs fetch, extract, aggregate and render for one configuration
type Pipeline struct {
	cfg      *config.Config
	log      *logger.Logger
	recorder *metrics.Recorder
	runID    string
	now      func() time.Time
}

// NewPipeline creates a pipeline for a validated configuration
func NewPipeline(cfg *config.Config, log *logger.Logger, recorder *metrics.Recorder, runID string) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		recorder: recorder,
		runID:    runID,
		now:      time.Now,
	}
}

// Run executes the pipeline. The report file is only written when every stage succeeded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	roster := p.cfg.Roster()
	p.recorder.SetPlayers(len(roster))

	f, err := fetcher.New(p.cfg.CacheDir,
		fetcher.WithTimeout(p.cfg.Timeout),
		fetcher.WithOffline(p.cfg.Offline),
		fetcher.WithLogger(p.log),
		fetcher.WithObserver(p.recorder),
		fetcher.WithClock(p.now),
	)
	if err != nil {
		p.recorder.IncError(stageFetch)
		return nil, fmt.Errorf("initializing fetcher: %w", err)
	}

	fetched, err := f.Ensure(ctx, fetcher.Resource{URL: p.cfg.LeaderboardURL(), Season: p.cfg.Season})
	if err != nil {
		p.recorder.IncError(stageFetch)
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}

	season, err := p.extract(fetched.Path, roster)
	if err != nil {
		p.recorder.IncError(stageExtract)
		return nil, err
	}
	p.recorder.SetRaces(len(season.Races))
	p.log.Info("Extracted scores", logger.Fields{"races": len(season.Races), "players": len(roster)})

	summary, err := stats.Summarize(season, roster)
	if err != nil {
		p.recorder.IncError(stageAggregate)
		return nil, fmt.Errorf("summarizing season: %w", err)
	}
	for _, column := range score.Columns() {
		for _, s := range summary.Standings(column, roster) {
			p.recorder.SetPoints(s.Player.Handle, column.Slug(), s.Total)
		}
	}

	doc := report.Build(season, summary, roster, report.Options{
		Title:       p.cfg.Title,
		Season:      p.cfg.Season,
		Stylesheet:  p.cfg.Stylesheet,
		Charts:      p.cfg.Charts,
		RunID:       p.runID,
		GeneratedAt: p.now(),
	})
	if err := report.WriteFile(p.cfg.Output, doc); err != nil {
		p.recorder.IncError(stageRender)
		return nil, fmt.Errorf("writing report: %w", err)
	}
	p.recorder.MarkSuccess(p.now())
	p.log.Info("Wrote report", logger.Fields{"path": p.cfg.Output, "charts": p.cfg.Charts})

	return &Result{
		Roster:     roster,
		Season:     season,
		Summary:    summary,
		ReportPath: p.cfg.Output,
		SourcePath: fetched.Path,
		Downloaded: fetched.Downloaded,
	}, nil
}

func (p *Pipeline) extract(path string, roster score.Roster) (*score.Season, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening leaderboard: %w", err)
	}
	defer file.Close() // nolint:errcheck

	season, err := extractor.New(roster).ExtractReader(file)
	if err != nil {
		return nil, fmt.Errorf("extracting scores from %s: %w", path, err)
	}
	return season, nil
}
