// Package config defines the gtg-stats configuration and its loading rules.
//
// Values are layered, lowest precedence first: built-in defaults, an optional YAML file
// (path given explicitly or through GTG_CONFIG), then GTG_* environment variables. The CLI
// applies its flags on top of the loaded Config.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/gtg-stats/internal/score"
)

const (
	// DefaultURLFormat builds the leaderboard URL of a season
	DefaultURLFormat = "http://guessthegrid.com/%d"
	DefaultSeason    = 2016
	DefaultCacheDir  = "~/.cache/gtg-stats"
	DefaultOutput    = "result.html"
	DefaultTitle     = "Guess the Grid Statistics"
	DefaultTimeout   = 30 * time.Second
)

// Config contains everything a report run needs
type Config struct {
	// Title is the HTML page title.
	Title string `koanf:"title"`

	// Season is the championship year the leaderboard belongs to.
	Season int `koanf:"season"`

	// URL overrides the leaderboard location. Empty means DefaultURLFormat for Season.
	URL string `koanf:"url"`

	// CacheDir holds downloaded leaderboards, one file per (URL, season).
	CacheDir string `koanf:"cache_dir"`

	// Output is the path of the generated HTML report.
	Output string `koanf:"output"`

	// Charts adds cumulative points line charts next to the tables.
	Charts bool `koanf:"charts"`

	// Offline never contacts the remote site and only uses the cache.
	Offline bool `koanf:"offline"`

	// Stylesheet is an optional stylesheet href linked from the report.
	Stylesheet string `koanf:"stylesheet"`

	// Timeout bounds the leaderboard download.
	Timeout time.Duration `koanf:"timeout"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`

	// Players is the ordered roster; its order is the column order of every table.
	Players []score.Player `koanf:"players"`
}

// DefaultPlayers is the roster used when none is configured
func DefaultPlayers() []score.Player {
	return []score.Player{
		{Name: "Allan", Handle: "tomato_plan"},
		{Name: "Dan", Handle: "jdanielp"},
		{Name: "Charlotte", Handle: "Seneska"},
	}
}

// New returns a Config holding the defaults
func New() *Config {
	return &Config{
		Title:    DefaultTitle,
		Season:   DefaultSeason,
		CacheDir: DefaultCacheDir,
		Output:   DefaultOutput,
		Charts:   true,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
		Players:  DefaultPlayers(),
	}
}

// LeaderboardURL returns the configured URL or the default one for the season
func (c *Config) LeaderboardURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(DefaultURLFormat, c.Season)
}

// Roster returns the configured players as a roster
func (c *Config) Roster() score.Roster {
	return score.Roster(c.Players)
}

// Validate reports the first problem that would prevent a run
func (c *Config) Validate() error {
	if c.Season < 1950 {
		return fmt.Errorf("%w: season %d out of range", ErrInvalidConfig, c.Season)
	}

	u, err := url.Parse(c.LeaderboardURL())
	if err != nil {
		return fmt.Errorf("%w: url: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url %q must be http or https", ErrInvalidConfig, c.LeaderboardURL())
	}

	if strings.TrimSpace(c.CacheDir) == "" {
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	if err := c.Roster().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
