package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/geom"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, geom.Point{X: 40, Y: 8}, cfg.Charts.DefaultDimensions)
	assert.Empty(t, cfg.Charts.Charts)
}

func TestDefaultCharts_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Charts.Charts = DefaultCharts()
	ApplyDefaults(cfg)
	ApplyLayout(&cfg.Charts)

	require.NoError(t, Validate(cfg))
	require.Len(t, cfg.Charts.Charts, 2)
	assert.Equal(t, "terminal", cfg.Charts.Charts[0].Name)
	assert.Equal(t, 5.0, cfg.Charts.Charts[1].Series[0].Refresh)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version: 1
fetch_timeout: 2s
frame_interval: 50ms
charts:
  position: {x: 1, y: 2}
  default_dimensions: {x: 30, y: 6}
  spacing: 4
  charts:
    - name: load
      series:
        - name: load1
          type: prometheus
          source: http://localhost:9090/api/v1/query_range?query=node_load1
          labels:
            job: node
      decorations:
        - type: reference
          value: 1.5
        - type: alert
          target: load1
          threshold: 4
    - name: term
      dimensions: {x: 20, y: 4}
      series:
        - name: out
          type: alacritty_output
          refresh: 0.5
          missing_values_policy: last
decorators:
  - type: hexagon
    animated: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Len(t, cfg.Charts.Charts, 2)

	load := cfg.Charts.Charts[0]
	assert.Equal(t, geom.Point{X: 1, Y: 2}, *load.Position)
	assert.Equal(t, geom.Point{X: 30, Y: 6}, *load.Dimensions)
	s := load.Series[0]
	assert.Equal(t, 15.0, s.Refresh)
	assert.Equal(t, "Overwrite", s.CollisionPolicy)
	assert.Equal(t, 300, s.MetricsCapacity)
	assert.Equal(t, map[string]string{"job": "node"}, s.Labels)
	assert.Equal(t, "0x00FFFF", s.Color)
	assert.Equal(t, 0.05, load.Decorations[0].HeightMultiplier)
	assert.Equal(t, ">", load.Decorations[1].Comparator)
	assert.Equal(t, "0xFF0000", load.Decorations[1].Color)

	term := cfg.Charts.Charts[1]
	assert.Equal(t, geom.Point{X: 35, Y: 2}, *term.Position)
	assert.Equal(t, geom.Point{X: 20, Y: 4}, *term.Dimensions)
	assert.Equal(t, 500*time.Millisecond, term.Series[0].RefreshInterval())
	assert.Equal(t, "Increment", term.Series[0].CollisionPolicy)
	assert.Equal(t, "last", term.Series[0].MissingValuesPolicy)

	require.Len(t, cfg.Decorators, 1)
	assert.Equal(t, "points", cfg.Decorators[0].Primitive)
	assert.Equal(t, 15*time.Second, cfg.Decorators[0].UpdateDuration())
}

func TestLoad_NoChartsUsesDefaults(t *testing.T) {
	path := writeConfig(t, "version: 1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Charts.Charts, len(DefaultCharts()))
}

func TestLoad_ExpandsSource(t *testing.T) {
	t.Setenv("PROM_HOST", "prom.internal:9090")
	path := writeConfig(t, `
charts:
  charts:
    - name: p
      series:
        - name: up
          type: prometheus
          source: http://${PROM_HOST}/api/v1/query?query=up
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://prom.internal:9090/api/v1/query?query=up", cfg.Charts.Charts[0].Series[0].Source)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CHARTTY_FETCH_TIMEOUT", "750ms")
	path := writeConfig(t, "version: 1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.FetchTimeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad yaml",
			content: "charts: [unclosed",
		},
		{
			name: "bad duration",
			content: `
fetch_timeout: soon
`,
		},
		{
			name: "future version",
			content: `
version: 99
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), "got %v", err)
		})
	}
}

func TestLoad_KeepsInvalidChart(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
charts:
  charts:
    - name: x
      series:
        - name: s
          type: cpu
`))
	require.NoError(t, err)
	require.Len(t, cfg.Charts.Charts, 1)
	assert.Error(t, ValidateChart(cfg.Charts.Charts[0]))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		got, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 1\n"), 0644))
		t.Chdir(dir)

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, ConfigFileName, filepath.Base(got))
	})

	t.Run("global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Chdir(t.TempDir())
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
		require.NoError(t, os.WriteFile(global, []byte("version: 1\n"), 0644))

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, got)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())

		got, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Len(t, cfg.Charts.Charts, 2)
	assert.NotNil(t, cfg.Charts.Charts[1].Position)
}

func TestApplyLayout(t *testing.T) {
	fixed := geom.Point{X: 100, Y: 100}
	cfg := ChartsConfig{
		Position:          geom.Point{X: 2, Y: 1},
		DefaultDimensions: geom.Point{X: 10, Y: 5},
		Spacing:           1,
		Charts: []ChartConfig{
			{Name: "a"},
			{Name: "b", Position: &fixed},
			{Name: "c", Dimensions: &geom.Point{X: 20, Y: 3}},
			{Name: "d"},
		},
	}

	ApplyLayout(&cfg)

	assert.Equal(t, geom.Point{X: 2, Y: 1}, *cfg.Charts[0].Position)
	assert.Equal(t, fixed, *cfg.Charts[1].Position)
	assert.Equal(t, geom.Point{X: 13, Y: 1}, *cfg.Charts[2].Position)
	assert.Equal(t, geom.Point{X: 34, Y: 1}, *cfg.Charts[3].Position)
	assert.Equal(t, geom.Point{X: 10, Y: 5}, *cfg.Charts[3].Dimensions)
}

func TestApplyDefaults_PaletteByIndex(t *testing.T) {
	cfg := &Config{Charts: ChartsConfig{Charts: []ChartConfig{{
		Name: "x",
		Series: []SeriesConfig{
			{Name: "a", Type: "alacritty_input"},
			{Name: "b", Type: "alacritty_input", Color: "#123456"},
			{Name: "c", Type: "alacritty_input"},
		},
	}}}}

	ApplyDefaults(cfg)

	s := cfg.Charts.Charts[0].Series
	assert.Equal(t, SeriesPalette[0], s[0].Color)
	assert.Equal(t, "#123456", s[1].Color)
	assert.Equal(t, SeriesPalette[2], s[2].Color)
	assert.Equal(t, 1.0, s[0].Alpha)
	assert.Equal(t, time.Second, s[0].GranularityDuration())
}
