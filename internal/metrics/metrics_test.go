package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/gtg-stats/internal/fetcher"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a new recorder", t, func() {
		r := New()

		Convey("When fetches are observed", func() {
			r.ObserveFetch(fetcher.OutcomeDownloaded, 150*time.Millisecond)
			r.ObserveFetch(fetcher.OutcomeCached, 0)
			r.ObserveFetch(fetcher.OutcomeCached, 0)

			Convey("Then the counter tracks each outcome", func() {
				So(testutil.ToFloat64(r.fetches.WithLabelValues(fetcher.OutcomeDownloaded)), ShouldEqual, 1)
				So(testutil.ToFloat64(r.fetches.WithLabelValues(fetcher.OutcomeCached)), ShouldEqual, 2)
				So(testutil.ToFloat64(r.fetches.WithLabelValues(fetcher.OutcomeFailed)), ShouldEqual, 0)
			})

			Convey("Then only the download is timed", func() {
				families, err := r.Registry().Gather()
				So(err, ShouldBeNil)

				var samples uint64
				for _, f := range families {
					if f.GetName() == "gtg_stats_leaderboard_fetch_duration_seconds" {
						samples = f.GetMetric()[0].GetHistogram().GetSampleCount()
					}
				}
				So(samples, ShouldEqual, uint64(1))
			})
		})

		Convey("When run results are recorded", func() {
			r.SetRaces(21)
			r.SetPlayers(3)
			r.SetPoints("tomato_plan", "weekend", 412)
			r.IncError("extract")

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(r.racesExtracted), ShouldEqual, 21)
				So(testutil.ToFloat64(r.players), ShouldEqual, 3)
				So(testutil.ToFloat64(r.pointsTotal.WithLabelValues("tomato_plan", "weekend")), ShouldEqual, 412)
				So(testutil.ToFloat64(r.runErrors.WithLabelValues("extract")), ShouldEqual, 1)
			})
		})

		Convey("When written to a textfile", func() {
			r.SetRaces(2)
			r.MarkSuccess(time.Unix(1700000000, 0))
			path := filepath.Join(t.TempDir(), "gtg.prom")

			err := r.WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				text := string(data)
				So(strings.Contains(text, "gtg_stats_races_extracted 2"), ShouldBeTrue)
				So(strings.Contains(text, "gtg_stats_last_success_timestamp_seconds "), ShouldBeTrue)
			})
		})
	})
}

func TestRecorderOptions(t *testing.T) {
	Convey("Given a recorder with a custom namespace", t, func() {
		r := New(WithNamespace("custom"), WithSubsystem("report"))
		r.SetPlayers(4)

		Convey("Then metric names use it", func() {
			families, err := r.Registry().Gather()
			So(err, ShouldBeNil)

			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "custom_report_players")
		})
	})
}
