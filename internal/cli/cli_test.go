package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/gtg-stats/internal/extractor"
	"github.com/pfrederiksen/gtg-stats/internal/fetcher"
	"github.com/pfrederiksen/gtg-stats/internal/stats"
)

const testConfig = `title: Test Statistics
players:
  - name: Alice
    handle: alice_gtg
  - name: Bob
    handle: bob
`

func raceWell(key string, qualifying, race map[string]int) string {
	list := func(points map[string]int) string {
		var b strings.Builder
		b.WriteString("<ol>")
		for _, handle := range []string{"alice_gtg", "bob"} {
			if p, ok := points[handle]; ok {
				fmt.Fprintf(&b, `<li><a href="/user/%s">%s</a> <span>%d</span></li>`, handle, handle, p)
			}
		}
		b.WriteString("</ol>")
		return b.String()
	}
	return `<div class="well"><div class="clearfix"><h3 class="pull-left" id="` + key + `">` + key + `</h3></div>` +
		list(qualifying) + list(race) + `</div>`
}

func leaderboard(wells ...string) string {
	return "<html><body><div class=\"container\">" + strings.Join(wells, "") + "</div></body></html>"
}

var twoRaces = leaderboard(
	raceWell("race1", map[string]int{"alice_gtg": 10, "bob": 5}, map[string]int{"alice_gtg": 20, "bob": 5}),
	raceWell("race2", map[string]int{"alice_gtg": 10, "bob": 5}, map[string]int{"alice_gtg": 20, "bob": 5}),
)

type testEnv struct {
	dir      string
	cacheDir string
	output   string
	config   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("GTG_CONFIG", "")

	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		cacheDir: filepath.Join(dir, "cache"),
		output:   filepath.Join(dir, "result.html"),
		config:   filepath.Join(dir, "gtg.yaml"),
	}
	if err := os.WriteFile(env.config, []byte(testConfig), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return env
}

func (e *testEnv) args(extra ...string) []string {
	return append([]string{
		"--config", e.config,
		"--cache-dir", e.cacheDir,
		"--output", e.output,
		"--season", "2016",
	}, extra...)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body)) // nolint:errcheck
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitError},
		{"missing input", fmt.Errorf("fetching: %w", &fetcher.MissingInputError{Path: "p", URL: "u", Cause: fetcher.ErrOffline}), ExitMissingInput},
		{"malformed", fmt.Errorf("extracting: %w", &extractor.ExtractionError{RaceKey: "race1", Handle: "bob", Found: 1, Err: extractor.ErrLinkCount}), ExitMalformedInput},
		{"no races", fmt.Errorf("summarizing: %w", &stats.AggregationError{Err: stats.ErrEmptySeries}), ExitNoRaces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"roster", SortByRoster, false},
		{"TOTAL", SortByTotal, false},
		{" name ", SortByName, false},
		{"points", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSortOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSortOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortStandings(t *testing.T) {
	base := []StandingRow{
		{Name: "charlie", Race: 10, Weekend: 30},
		{Name: "Alice", Race: 20, Weekend: 30},
		{Name: "bob", Race: 5, Weekend: 40},
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByRoster, []string{"charlie", "Alice", "bob"}},
		{SortByTotal, []string{"bob", "Alice", "charlie"}},
		{SortByName, []string{"Alice", "bob", "charlie"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rows := append([]StandingRow(nil), base...)
			sortStandings(rows, tt.order)

			var got []string
			for _, r := range rows {
				got = append(got, r.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	env := newTestEnv(t)
	server := serve(t, http.StatusOK, twoRaces)

	stdout, _, err := execute(t, env.args("--url", server.URL, "--format", "json", "--sort", "total"))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var out OutputResult
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout)
	}

	want := []StandingRow{
		{Name: "Alice", Handle: "alice_gtg", Qualifying: 20, Race: 40, Weekend: 60},
		{Name: "Bob", Handle: "bob", Qualifying: 10, Race: 10, Weekend: 20},
	}
	if diff := cmp.Diff(want, out.Standings); diff != "" {
		t.Errorf("Standings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"race1", "race2"}, out.Races); diff != "" {
		t.Errorf("Races mismatch (-want +got):\n%s", diff)
	}
	if !out.Downloaded {
		t.Error("first run should download the leaderboard")
	}
	if out.RunID == "" {
		t.Error("RunID should be set")
	}

	report, err := os.ReadFile(env.output)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	for _, s := range []string{"<title>Test Statistics</title>", "race1", "race2", `<canvas id="weekend-chart">`} {
		if !strings.Contains(string(report), s) {
			t.Errorf("report missing %q", s)
		}
	}
}

func TestRun_TextWithoutCharts(t *testing.T) {
	env := newTestEnv(t)
	server := serve(t, http.StatusOK, twoRaces)

	stdout, _, err := execute(t, env.args("--url", server.URL, "--charts=false"))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, s := range []string{"Season 2016 standings after 2 races", "Alice", "Bob", env.output} {
		if !strings.Contains(stdout, s) {
			t.Errorf("output missing %q:\n%s", s, stdout)
		}
	}

	report, err := os.ReadFile(env.output)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if strings.Contains(string(report), "<canvas") {
		t.Error("report should not contain charts")
	}
}

func TestRun_OfflineUsesCache(t *testing.T) {
	env := newTestEnv(t)
	server := serve(t, http.StatusOK, twoRaces)

	if _, _, err := execute(t, env.args("--url", server.URL)); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	server.Close()

	stdout, _, err := execute(t, env.args("--url", server.URL, "--offline", "--format", "json"))
	if err != nil {
		t.Fatalf("offline run error: %v", err)
	}

	var out OutputResult
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if out.Downloaded {
		t.Error("offline run should not download")
	}
	if len(out.Races) != 2 {
		t.Errorf("Races = %v, want 2 races", out.Races)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		extra    []string
		wantCode int
	}{
		{
			name:     "offline without cache",
			status:   http.StatusOK,
			body:     twoRaces,
			extra:    []string{"--offline"},
			wantCode: ExitMissingInput,
		},
		{
			name:     "download fails without cache",
			status:   http.StatusInternalServerError,
			body:     "oops",
			wantCode: ExitMissingInput,
		},
		{
			name:     "player missing from race",
			status:   http.StatusOK,
			body:     leaderboard(raceWell("race1", map[string]int{"alice_gtg": 10, "bob": 5}, map[string]int{"alice_gtg": 20})),
			wantCode: ExitMalformedInput,
		},
		{
			name:     "no races",
			status:   http.StatusOK,
			body:     leaderboard(),
			wantCode: ExitNoRaces,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			server := serve(t, tt.status, tt.body)

			_, stderr, err := execute(t, env.args(append([]string{"--url", server.URL}, tt.extra...)...))
			if err == nil {
				t.Fatal("Execute() should fail")
			}
			if got := ExitCode(err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d (err: %v)", got, tt.wantCode, err)
			}
			if !strings.Contains(stderr, `"level":"ERROR"`) {
				t.Errorf("stderr should contain an error entry:\n%s", stderr)
			}
			if _, err := os.Stat(env.output); !os.IsNotExist(err) {
				t.Error("report must not be written for a failed run")
			}
		})
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"format", env.args("--format", "xml")},
		{"sort", env.args("--sort", "points")},
		{"url scheme", env.args("--url", "ftp://example.com")},
		{"season", env.args("--season", "1900")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args)
			if err == nil {
				t.Fatal("Execute() should fail")
			}
			if got := ExitCode(err); got != ExitError {
				t.Errorf("ExitCode() = %d, want %d", got, ExitError)
			}
		})
	}
}

func TestRun_MetricsFile(t *testing.T) {
	env := newTestEnv(t)
	server := serve(t, http.StatusOK, twoRaces)
	metricsPath := filepath.Join(env.dir, "gtg.prom")
	t.Setenv("GTG_METRICS_FILE", metricsPath)

	if _, _, err := execute(t, env.args("--url", server.URL)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	for _, s := range []string{"gtg_stats_races_extracted 2", "gtg_stats_players 2"} {
		if !strings.Contains(string(data), s) {
			t.Errorf("metrics missing %q:\n%s", s, data)
		}
	}
}

func TestRun_PointsMetricsPerHandle(t *testing.T) {
	env := newTestEnv(t)
	sameNames := "players:\n  - name: Sam\n    handle: alice_gtg\n  - name: Sam\n    handle: bob\n"
	if err := os.WriteFile(env.config, []byte(sameNames), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	server := serve(t, http.StatusOK, twoRaces)
	metricsPath := filepath.Join(env.dir, "gtg.prom")
	t.Setenv("GTG_METRICS_FILE", metricsPath)

	if _, _, err := execute(t, env.args("--url", server.URL)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	for _, s := range []string{
		`gtg_stats_points_total{column="weekend",handle="alice_gtg"} 60`,
		`gtg_stats_points_total{column="weekend",handle="bob"} 20`,
	} {
		if !strings.Contains(string(data), s) {
			t.Errorf("metrics missing %q:\n%s", s, data)
		}
	}
}
