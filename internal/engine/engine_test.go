package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/logger"
	"github.com/rileyhilliard/chartty/internal/termio"
)

const matrixBody = `{"status":"success","data":{"resultType":"matrix","result":[
	{"metric":{"__name__":"node_load1","job":"node"},"values":[[1700000000,"1.5"],[1700000001,"2.5"]]}
]}}`

func prometheusServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, matrixBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loadConfig(t *testing.T, cfg *config.Config) *config.Config {
	t.Helper()
	config.ApplyDefaults(cfg)
	config.ApplyLayout(&cfg.Charts)
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func testConfig(t *testing.T, promURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.FetchTimeout = time.Second
	cfg.ShutdownTimeout = 2 * time.Second
	cfg.Charts.Charts = []config.ChartConfig{
		{
			Name: "load",
			Series: []config.SeriesConfig{{
				Name:    "load1",
				Type:    "prometheus",
				Refresh: 0.05,
				Source:  promURL + "/api/v1/query_range?query=node_load1",
				Labels:  map[string]string{"job": "node"},
			}},
			Decorations: []config.DecorationConfig{
				{Type: "alert", Target: "load1", Threshold: 2, Comparator: ">"},
			},
		},
		{
			Name: "term",
			Series: []config.SeriesConfig{
				{Name: "out", Type: "alacritty_output", Refresh: 0.05},
				{Name: "items", Type: "async_items_loaded", Refresh: 0.05},
			},
		},
	}
	cfg.Decorators = []config.DecoratorConfig{{Type: "hexagon", Animated: true}}
	return loadConfig(t, cfg)
}

func TestEngine_EndToEnd(t *testing.T) {
	srv := prometheusServer(t)
	counters := &termio.Counters{}
	reg := prometheus.NewRegistry()

	e, err := New(testConfig(t, srv.URL), Options{
		Logger:   logger.NewBufferLogger(),
		Registry: reg,
		Counters: counters,
	})
	require.NoError(t, err)
	require.Len(t, e.Charts(), 2)
	require.Len(t, e.Decorators(), 1)
	assert.Equal(t, []string{"load/load1", "term/out", "term/items"}, e.Scheduler().Jobs())

	require.NoError(t, e.Start(context.Background()))
	counters.Output.Add(64)

	require.Eventually(t, func() bool {
		snaps := e.Snapshots()
		return len(snaps[0].Series[0].Samples) == 2 && snaps[0].Emphasis != nil
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return e.Snapshots()[1].Series[0].Stats.Sum == 64
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, e.Stop())

	snap := e.Snapshots()[0]
	assert.Equal(t, 2.5, snap.Series[0].Latest.Value)
	assert.True(t, snap.Decorations[0].Active)

	// Every successful Prometheus fetch loads two samples.
	assert.GreaterOrEqual(t, counters.AsyncItems.Load(), uint64(2))
	assert.Greater(t, testutil.ToFloat64(e.metrics.FetchTotal.WithLabelValues("load/load1", "ok")), 0.0)
}

func TestEngine_SkipsBadChart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Charts.Charts = []config.ChartConfig{
		{
			Name:        "broken",
			Series:      []config.SeriesConfig{{Name: "a", Type: "alacritty_input"}},
			Decorations: []config.DecorationConfig{{Type: "alert", Target: "missing"}},
		},
		{
			Name:   "ok",
			Series: []config.SeriesConfig{{Name: "a", Type: "alacritty_input"}},
		},
	}
	log := logger.NewBufferLogger()

	e, err := New(loadConfig(t, cfg), Options{Logger: log, Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	require.Len(t, e.Charts(), 1)
	assert.Equal(t, "ok", e.Charts()[0].Name)
	require.Contains(t, e.Skipped(), "broken")
	assert.True(t, errors.IsCode(e.Skipped()["broken"], errors.ErrConfig))
	assert.True(t, log.Contains("error", `skipping chart "broken"`))
}

func TestEngine_LoadedConfigSkipsInvalidChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
charts:
  charts:
    - name: good
      series:
        - name: out
          type: alacritty_output
    - name: bad
      series:
        - name: in
          type: alacritty_input
      decorations:
        - type: alert
          target: ""
          threshold: 1
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	e, err := New(cfg, Options{Logger: logger.NewBufferLogger(), Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	require.Len(t, e.Charts(), 1)
	assert.Equal(t, "good", e.Charts()[0].Name)
	require.Contains(t, e.Skipped(), "bad")
	assert.Contains(t, e.Skipped()["bad"].Error(), "needs a target")
	assert.Equal(t, []string{"good/out"}, e.Scheduler().Jobs())
}

func TestEngine_NoUsableCharts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Charts.Charts = []config.ChartConfig{{
		Name:        "broken",
		Series:      []config.SeriesConfig{{Name: "a", Type: "alacritty_input"}},
		Decorations: []config.DecorationConfig{{Type: "alert", Target: "missing"}},
	}}

	_, err := New(loadConfig(t, cfg), Options{Logger: logger.Noop(), Registry: prometheus.NewRegistry()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestEngine_MetricsServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.Charts.Charts = []config.ChartConfig{{
		Name:   "term",
		Series: []config.SeriesConfig{{Name: "in", Type: "alacritty_input", Refresh: 0.05}},
	}}

	e, err := New(loadConfig(t, cfg), Options{Logger: logger.Noop()})
	require.NoError(t, err)
	require.NoError(t, e.Start(context.Background()))
	t.Cleanup(func() { _ = e.Stop() })

	assert.Error(t, e.Start(context.Background()))

	addr := e.MetricsAddr()
	require.NotEqual(t, "127.0.0.1:0", addr)

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(body), "chartty_fetch_total") && strings.Contains(string(body), "go_goroutines")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, e.Stop())
}
