package config

import (
	"time"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete chartty.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// FetchTimeout bounds every single fetch, independent of refresh intervals.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// FetchBackoffMax enables exponential skipping of ticks after consecutive
	// fetch failures, capped at this duration. Zero disables it.
	FetchBackoffMax time.Duration `yaml:"fetch_backoff_max,omitempty" mapstructure:"fetch_backoff_max"`

	// ShutdownTimeout bounds how long shutdown waits for in-flight fetches.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// FrameInterval is the render frame period.
	FrameInterval time.Duration `yaml:"frame_interval" mapstructure:"frame_interval"`

	// MetricsAddr serves chartty's own Prometheus metrics when set (e.g. ":9464").
	MetricsAddr string `yaml:"metrics_addr,omitempty" mapstructure:"metrics_addr"`

	Log        LogConfig         `yaml:"log" mapstructure:"log"`
	Charts     ChartsConfig      `yaml:"charts" mapstructure:"charts"`
	Decorators []DecoratorConfig `yaml:"decorators,omitempty" mapstructure:"decorators"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`

	// File receives log output while the TUI owns the terminal.
	// Supports ~ and ${VAR} expansion.
	File string `yaml:"file,omitempty" mapstructure:"file"`

	// JSON switches to structured JSON log lines.
	JSON bool `yaml:"json,omitempty" mapstructure:"json"`
}

// ChartsConfig holds the chart list and its layout defaults.
type ChartsConfig struct {
	// Position is where the first auto-placed chart goes.
	Position geom.Point `yaml:"position" mapstructure:"position"`

	// DefaultDimensions apply to charts without explicit dimensions.
	DefaultDimensions geom.Point `yaml:"default_dimensions" mapstructure:"default_dimensions"`

	// Spacing is the horizontal gap between auto-placed charts.
	Spacing float64 `yaml:"spacing" mapstructure:"spacing"`

	Charts []ChartConfig `yaml:"charts" mapstructure:"charts"`
}

// ChartConfig defines one chart.
type ChartConfig struct {
	Name string `yaml:"name" mapstructure:"name"`

	// Position and Dimensions are optional; missing values are filled by
	// ApplyLayout.
	Position   *geom.Point `yaml:"position,omitempty" mapstructure:"position"`
	Dimensions *geom.Point `yaml:"dimensions,omitempty" mapstructure:"dimensions"`

	Series      []SeriesConfig     `yaml:"series" mapstructure:"series"`
	Decorations []DecorationConfig `yaml:"decorations,omitempty" mapstructure:"decorations"`
}

// SeriesConfig defines one independently polled feed.
type SeriesConfig struct {
	Name string `yaml:"name" mapstructure:"name"`

	// Type is prometheus, alacritty_output, alacritty_input or async_items_loaded.
	Type string `yaml:"type" mapstructure:"type"`

	// Refresh is the polling interval in seconds.
	Refresh float64 `yaml:"refresh,omitempty" mapstructure:"refresh"`

	// Source is the Prometheus query URL. Supports ${VAR} expansion.
	Source string `yaml:"source,omitempty" mapstructure:"source"`

	// Labels a Prometheus result stream must carry to be charted.
	Labels map[string]string `yaml:"labels,omitempty" mapstructure:"labels"`

	// Color is "0xRRGGBB".
	Color string `yaml:"color,omitempty" mapstructure:"color"`

	// Alpha in (0,1]. Zero means the default of 1.
	Alpha float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`

	// MissingValuesPolicy is last, avg, zero, one, first, min, max or fixed(N).
	MissingValuesPolicy string `yaml:"missing_values_policy,omitempty" mapstructure:"missing_values_policy"`

	// CollisionPolicy is Increment, Overwrite, Decrement or Ignore.
	CollisionPolicy string `yaml:"collision_policy,omitempty" mapstructure:"collision_policy"`

	// MetricsCapacity is how many samples the series retains.
	MetricsCapacity int `yaml:"metrics_capacity,omitempty" mapstructure:"metrics_capacity"`

	// Granularity is the bucket width in seconds.
	Granularity float64 `yaml:"granularity,omitempty" mapstructure:"granularity"`
}

// RefreshInterval returns Refresh as a duration.
func (s SeriesConfig) RefreshInterval() time.Duration {
	return seconds(s.Refresh)
}

// GranularityDuration returns Granularity as a duration.
func (s SeriesConfig) GranularityDuration() time.Duration {
	return seconds(s.Granularity)
}

// DecorationConfig defines a reference band or an alert.
type DecorationConfig struct {
	// Type is reference or alert.
	Type string `yaml:"type" mapstructure:"type"`

	// Value and HeightMultiplier shape a reference band.
	Value            float64 `yaml:"value,omitempty" mapstructure:"value"`
	HeightMultiplier float64 `yaml:"height_multiplier,omitempty" mapstructure:"height_multiplier"`

	// Target, Threshold and Comparator define an alert.
	Target     string  `yaml:"target,omitempty" mapstructure:"target"`
	Threshold  float64 `yaml:"threshold,omitempty" mapstructure:"threshold"`
	Comparator string  `yaml:"comparator,omitempty" mapstructure:"comparator"`

	Color string  `yaml:"color,omitempty" mapstructure:"color"`
	Alpha float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`
}

// DecoratorConfig defines a cosmetic background overlay.
type DecoratorConfig struct {
	// Type is hexagon or nannou.
	Type string `yaml:"type" mapstructure:"type"`

	// Primitive is points, lines or triangles.
	Primitive string `yaml:"primitive,omitempty" mapstructure:"primitive"`

	Color  string  `yaml:"color,omitempty" mapstructure:"color"`
	Alpha  float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`
	Radius float64 `yaml:"radius,omitempty" mapstructure:"radius"`

	Animated bool `yaml:"animated,omitempty" mapstructure:"animated"`

	// UpdateInterval is the animation period in seconds.
	UpdateInterval float64 `yaml:"update_interval,omitempty" mapstructure:"update_interval"`
}

// UpdateDuration returns UpdateInterval as a duration.
func (d DecoratorConfig) UpdateDuration() time.Duration {
	return seconds(d.UpdateInterval)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
