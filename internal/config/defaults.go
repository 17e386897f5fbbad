package config

import (
	"time"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// Default values for fields left empty in the config file.
const (
	DefaultFetchTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 3 * time.Second
	DefaultFrameInterval   = 100 * time.Millisecond
	DefaultLogLevel        = "info"

	DefaultCapacity          = 300
	DefaultRefresh           = 1.0
	DefaultPrometheusRefresh = 15.0
	DefaultGranularity       = 1.0
	DefaultMissingPolicy     = "zero"

	DefaultHeightMultiplier = 0.05
	DefaultDecorationAlpha  = 0.5
	DefaultComparator       = ">"

	DefaultDecoratorAlpha    = 0.4
	DefaultDecoratorRadius   = 0.05
	DefaultDecoratorInterval = 15.0
	DefaultDecoratorColor    = "0x1958A7"
	DefaultPrimitive         = "points"
)

// SeriesPalette colors series that do not set one, in chart order.
var SeriesPalette = []string{
	"0x00FFFF",
	"0xFFA500",
	"0x7CFC00",
	"0xFF00FF",
	"0xFFD700",
	"0x1E90FF",
}

var (
	defaultReferenceColor = "0x03DAC6"
	defaultAlertColor     = "0xFF0000"
)

// DefaultConfig returns a config with every scalar default filled in and no
// charts.
func DefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		FetchTimeout:    DefaultFetchTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		FrameInterval:   DefaultFrameInterval,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Charts: ChartsConfig{
			DefaultDimensions: geom.Point{X: 40, Y: 8},
			Spacing:           2,
		},
	}
}

// DefaultCharts is the chart set used when no config file exists: terminal
// output and input throughput plus the async loader counter.
func DefaultCharts() []ChartConfig {
	return []ChartConfig{
		{
			Name: "terminal",
			Series: []SeriesConfig{
				{Name: "output", Type: "alacritty_output", Color: "0x00FF00"},
				{Name: "input", Type: "alacritty_input", Color: "0x1E90FF"},
			},
		},
		{
			Name: "loader",
			Series: []SeriesConfig{
				{Name: "async_items", Type: "async_items_loaded", Color: "0xFFA500", Refresh: 5},
			},
		},
	}
}

// ApplyDefaults fills empty per-series, per-decoration and per-decorator
// fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	for ci := range cfg.Charts.Charts {
		chart := &cfg.Charts.Charts[ci]
		for si := range chart.Series {
			applySeriesDefaults(&chart.Series[si], si)
		}
		for di := range chart.Decorations {
			applyDecorationDefaults(&chart.Decorations[di])
		}
	}

	for i := range cfg.Decorators {
		d := &cfg.Decorators[i]
		if d.Primitive == "" {
			d.Primitive = DefaultPrimitive
		}
		if d.Color == "" {
			d.Color = DefaultDecoratorColor
		}
		if d.Alpha == 0 {
			d.Alpha = DefaultDecoratorAlpha
		}
		if d.Radius == 0 {
			d.Radius = DefaultDecoratorRadius
		}
		if d.UpdateInterval == 0 {
			d.UpdateInterval = DefaultDecoratorInterval
		}
	}
}

func applySeriesDefaults(s *SeriesConfig, index int) {
	prom := s.Type == "prometheus"
	if s.Refresh == 0 {
		s.Refresh = DefaultRefresh
		if prom {
			s.Refresh = DefaultPrometheusRefresh
		}
	}
	if s.MetricsCapacity == 0 {
		s.MetricsCapacity = DefaultCapacity
	}
	if s.Granularity == 0 {
		s.Granularity = DefaultGranularity
	}
	if s.CollisionPolicy == "" {
		s.CollisionPolicy = "Increment"
		if prom {
			// Range queries return overlapping windows every tick.
			s.CollisionPolicy = "Overwrite"
		}
	}
	if s.MissingValuesPolicy == "" {
		s.MissingValuesPolicy = DefaultMissingPolicy
	}
	if s.Color == "" {
		s.Color = SeriesPalette[index%len(SeriesPalette)]
	}
	if s.Alpha == 0 {
		s.Alpha = 1
	}
}

func applyDecorationDefaults(d *DecorationConfig) {
	if d.Alpha == 0 {
		d.Alpha = DefaultDecorationAlpha
	}
	switch d.Type {
	case "reference":
		if d.HeightMultiplier == 0 {
			d.HeightMultiplier = DefaultHeightMultiplier
		}
		if d.Color == "" {
			d.Color = defaultReferenceColor
		}
	case "alert":
		if d.Comparator == "" {
			d.Comparator = DefaultComparator
		}
		if d.Color == "" {
			d.Color = defaultAlertColor
		}
	}
}
