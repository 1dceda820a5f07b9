// Package metrics records Prometheus metrics for a single report run.
//
// gtg-stats runs as a short-lived process (typically from cron), so metrics are not served
// over HTTP; they are written in the text exposition format to a file that node_exporter's
// textfile collector can pick up.
package metrics

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/gtg-stats/internal/fetcher"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultNamespace = "gtg"
	defaultSubsystem = "stats"
)

// Recorder holds the metrics of one run on its own registry
type Recorder struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	fetches        *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	racesExtracted prometheus.Gauge
	players        prometheus.Gauge
	pointsTotal    *prometheus.GaugeVec
	runErrors      *prometheus.CounterVec
	lastSuccess    prometheus.Gauge
}

// Option configures a Recorder
type Option func(*Recorder)

// WithNamespace sets the namespace of all metrics
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem of all metrics
func WithSubsystem(subsystem string) Option {
	return func(r *Recorder) {
		if subsystem != "" {
			r.subsystem = subsystem
		}
	}
}

// New creates a Recorder with a fresh registry
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		subsystem: defaultSubsystem,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "leaderboard_fetches_total",
		Help:      "Leaderboard fetch attempts by outcome.",
	}, []string{"outcome"})
	r.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "leaderboard_fetch_duration_seconds",
		Help:      "Time spent downloading the leaderboard.",
		Buckets:   prometheus.DefBuckets,
	})
	r.racesExtracted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "races_extracted",
		Help:      "Races found in the leaderboard.",
	})
	r.players = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "players",
		Help:      "Players in the configured roster.",
	})
	r.pointsTotal = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "points_total",
		Help:      "Season points per player and score column.",
	}, []string{"handle", "column"})
	r.runErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "run_errors_total",
		Help:      "Failed runs by stage.",
	}, []string{"stage"})
	r.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful report.",
	})

	r.registry.MustRegister(
		r.fetches, r.fetchDuration, r.racesExtracted, r.players,
		r.pointsTotal, r.runErrors, r.lastSuccess,
	)
	return r
}

// Registry exposes the underlying registry for gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch records one fetch attempt
func (r *Recorder) ObserveFetch(outcome string, d time.Duration) {
	r.fetches.WithLabelValues(outcome).Inc()
	if outcome == fetcher.OutcomeDownloaded {
		r.fetchDuration.Observe(d.Seconds())
	}
}

// SetRaces records how many races were extracted
func (r *Recorder) SetRaces(n int) {
	r.racesExtracted.Set(float64(n))
}

// SetPlayers records the roster size
func (r *Recorder) SetPlayers(n int) {
	r.players.Set(float64(n))
}

// SetPoints records a player's season total for a column, labelled by the player's handle
func (r *Recorder) SetPoints(handle, column string, total int) {
	r.pointsTotal.WithLabelValues(handle, column).Set(float64(total))
}

// IncError records a run failing at stage
func (r *Recorder) IncError(stage string) {
	r.runErrors.WithLabelValues(stage).Inc()
}

// MarkSuccess records the completion time of a successful run
func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
