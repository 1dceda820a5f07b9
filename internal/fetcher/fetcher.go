package fetcher

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/gtg-stats/internal/logger"
)

const (
	UserAgent      = "gtg-stats/1.0 (github.com/pfrederiksen/gtg-stats)"
	DefaultTimeout = 30 * time.Second
)

// Resource identifies a season leaderboard
type Resource struct {
	URL    string
	Season int
}

// Result describes the local copy Ensure settled on
type Result struct {
	Path       string
	Downloaded bool  // A new copy was written during this call
	FetchErr   error // Download failure the call recovered from, if any
}

// Observer receives the outcome of every Ensure call
type Observer interface {
	ObserveFetch(outcome string, d time.Duration)
}

// Outcomes reported to the Observer
const (
	OutcomeDownloaded = "downloaded"
	OutcomeCached     = "cached"
	OutcomeFailed     = "failed"
)

// Fetcher downloads leaderboards into a cache directory
type Fetcher struct {
	client   *resty.Client
	cacheDir string
	offline  bool
	now      func() time.Time
	log      *logger.Logger
	observer Observer
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout bounds each download
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.SetTimeout(d)
		}
	}
}

// WithOffline makes Ensure use the cache only
func WithOffline(offline bool) Option {
	return func(f *Fetcher) {
		f.offline = offline
	}
}

// WithClock replaces the source of the current time
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithLogger sets the logger used for recoverable failures
func WithLogger(l *logger.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// WithObserver reports fetch outcomes, e.g. to metrics
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		f.observer = o
	}
}

// New creates a Fetcher storing copies in cacheDir, creating it if needed.
// A leading ~/ is expanded to the home directory.
func New(cacheDir string, opts ...Option) (*Fetcher, error) {
	if strings.HasPrefix(cacheDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cacheDir = filepath.Join(home, cacheDir[2:])
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	client := resty.New().
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", UserAgent)

	f := &Fetcher{
		client:   client,
		cacheDir: cacheDir,
		now:      time.Now,
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// CachePath returns where the copy of a resource is kept. The name depends on both the
// season and the URL.
func (f *Fetcher) CachePath(res Resource) string {
	h := sha1.New()
	h.Write([]byte(res.URL))
	sum := fmt.Sprintf("%x", h.Sum(nil))
	return filepath.Join(f.cacheDir, fmt.Sprintf("leaderboard_%d_%s.html", res.Season, sum[:12]))
}

// Ensure makes sure a usable local copy of the resource exists and returns its path.
// A failed download falls back to an existing copy; without one it returns a
// *MissingInputError.
func (f *Fetcher) Ensure(ctx context.Context, res Resource) (*Result, error) {
	if res.URL == "" {
		return nil, ErrNoURL
	}

	path := f.CachePath(res)
	fields := logger.Fields{"url": res.URL, "season": res.Season, "path": path}

	info, statErr := os.Stat(path)
	exists := statErr == nil && info.Mode().IsRegular()

	if exists && !f.needsRefresh(info.ModTime()) {
		f.log.Debug("Using cached leaderboard", fields)
		f.observe(OutcomeCached, 0)
		return &Result{Path: path}, nil
	}

	if f.offline {
		if exists {
			f.log.Info("Offline, using cached leaderboard", fields)
			f.observe(OutcomeCached, 0)
			return &Result{Path: path}, nil
		}
		return nil, &MissingInputError{Path: path, URL: res.URL, Cause: ErrOffline}
	}

	start := f.now()
	err := f.download(ctx, res.URL, path)
	if err != nil {
		f.observe(OutcomeFailed, 0)
		if exists {
			f.log.WarnErr("Leaderboard not reachable, using cached copy", fields, err)
			return &Result{Path: path, FetchErr: err}, nil
		}
		return nil, &MissingInputError{Path: path, URL: res.URL, Cause: err}
	}

	f.observe(OutcomeDownloaded, f.now().Sub(start))
	f.log.Info("Downloaded leaderboard", fields)
	return &Result{Path: path, Downloaded: true}, nil
}

// needsRefresh reports whether a copy last modified at modTime should be downloaded again,
// that is whether it was written on another calendar day than today
func (f *Fetcher) needsRefresh(modTime time.Time) bool {
	now := f.now()
	return !sameDay(modTime.In(now.Location()), now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// download fetches url and replaces path with the body. The previous copy stays intact
// unless the whole body was received.
func (f *Fetcher) download(ctx context.Context, url, path string) error {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	tmp, err := os.CreateTemp(f.cacheDir, ".leaderboard-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(resp.Body()); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving leaderboard: %w", err)
	}

	return nil
}

func (f *Fetcher) observe(outcome string, d time.Duration) {
	if f.observer != nil {
		f.observer.ObserveFetch(outcome, d)
	}
}
