package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/gtg-stats/internal/config"
	"github.com/pfrederiksen/gtg-stats/internal/logger"
	"github.com/pfrederiksen/gtg-stats/internal/metrics"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	season     int
	url        string
	cacheDir   string
	output     string
	charts     bool
	offline    bool
	format     string
	sort       string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gtg-stats",
		Short: "Generate Guess the Grid season statistics",
		Long: `A CLI tool that downloads a Guess the Grid leaderboard, extracts the
qualifying and race points of each tracked player and writes an HTML report
with per-race tables, summary statistics and cumulative points charts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default $GTG_CONFIG)")
	cmd.Flags().IntVar(&opts.season, "season", config.DefaultSeason, "Championship season")
	cmd.Flags().StringVar(&opts.url, "url", "", "Leaderboard URL (default derived from --season)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", config.DefaultCacheDir, "Directory for downloaded leaderboards")
	cmd.Flags().StringVar(&opts.output, "output", config.DefaultOutput, "Path of the generated HTML report")
	cmd.Flags().BoolVar(&opts.charts, "charts", true, "Include cumulative points charts")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Only use the cached leaderboard")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Standings output format: text or json")
	cmd.Flags().StringVar(&opts.sort, "sort", "roster", "Standings order: roster, total or name")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// loadConfig loads the layered configuration and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("season") {
		cfg.Season = opts.season
	}
	if flags.Changed("url") {
		cfg.URL = opts.url
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = opts.cacheDir
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("charts") {
		cfg.Charts = opts.charts
	}
	if flags.Changed("offline") {
		cfg.Offline = opts.offline
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run is the main command logic
func run(cmd *cobra.Command, opts *rootOptions) error {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(opts.format)))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.New(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr()).With(logger.Fields{"run_id": runID})
	prev := logger.Default()
	logger.SetDefault(log)
	defer logger.SetDefault(prev)
	log.Debug("Starting run", logger.Fields{
		"season":    cfg.Season,
		"url":       cfg.LeaderboardURL(),
		"cache_dir": cfg.CacheDir,
		"offline":   cfg.Offline,
		"players":   len(cfg.Players),
	})

	recorder := metrics.New()
	pipeline := NewPipeline(cfg, log, recorder, runID)

	result, runErr := pipeline.Run(cmd.Context())

	// Metrics are written for failed runs too
	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.WarnErr("Failed to write metrics", logger.Fields{"path": cfg.MetricsFile}, err)
		}
	}

	if runErr != nil {
		log.Error("Run failed", logger.Fields{"exit_code": ExitCode(runErr)}, runErr)
		return runErr
	}

	out := NewOutputResult(result, cfg.Season, runID, time.Now())
	sortStandings(out.Standings, order)
	if err := WriteOutput(cmd.OutOrStdout(), out, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// Execute runs the CLI and exits with the code matching the failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCode(err))
	}
}
