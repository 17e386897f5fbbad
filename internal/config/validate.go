package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/rileyhilliard/chartty/internal/decor"
	"github.com/rileyhilliard/chartty/internal/decoration"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/series"
	"github.com/rileyhilliard/chartty/internal/source"
)

// Validate checks the settings that span the whole config. It runs after
// ApplyDefaults. Each chart is checked by ValidateChart when it is built,
// so a broken chart only disables itself.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but chartty only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade chartty")
	}

	if cfg.FetchTimeout < 0 || cfg.ShutdownTimeout < 0 || cfg.FetchBackoffMax < 0 {
		return errors.New(errors.ErrConfig,
			"Timeouts can't be negative",
			"Check fetch_timeout, fetch_backoff_max and shutdown_timeout in chartty.yaml")
	}

	if len(cfg.Charts.Charts) == 0 {
		return errors.New(errors.ErrConfig,
			"No charts configured",
			"Add at least one chart under charts.charts, or run 'chartty init'")
	}

	names := lo.Map(cfg.Charts.Charts, func(c ChartConfig, _ int) string { return c.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Chart names must be unique, found duplicates: %s", strings.Join(dups, ", ")),
			"Rename the duplicate charts")
	}

	for i, d := range cfg.Decorators {
		if err := validateDecorator(d); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Decorator #%d is invalid", i+1),
				"Check the decorators section in chartty.yaml")
		}
	}

	return nil
}

// ValidateChart checks one chart as it looks after ApplyDefaults.
func ValidateChart(chart ChartConfig) error {
	if err := validateChart(chart); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Chart '%s' is invalid", chart.Name),
			"Check the chart's section in chartty.yaml")
	}
	return nil
}

func validateChart(chart ChartConfig) error {
	if strings.TrimSpace(chart.Name) == "" {
		return fmt.Errorf("chart name is required")
	}
	if len(chart.Series) == 0 {
		return fmt.Errorf("chart has no series")
	}
	if chart.Dimensions != nil && (chart.Dimensions.X <= 0 || chart.Dimensions.Y <= 0) {
		return fmt.Errorf("dimensions must be positive, got %gx%g", chart.Dimensions.X, chart.Dimensions.Y)
	}

	names := lo.Map(chart.Series, func(s SeriesConfig, _ int) string { return s.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("series names must be unique within a chart, found duplicates: %s", strings.Join(dups, ", "))
	}

	for _, s := range chart.Series {
		if err := validateSeries(s); err != nil {
			return fmt.Errorf("series '%s': %w", s.Name, err)
		}
	}
	for i, d := range chart.Decorations {
		if err := validateDecoration(d); err != nil {
			return fmt.Errorf("decoration #%d: %w", i+1, err)
		}
	}
	return nil
}

// CheckSeries validates s as it would look once defaults are applied.
func CheckSeries(s SeriesConfig) error {
	applySeriesDefaults(&s, 0)
	if err := validateSeries(s); err != nil {
		return fmt.Errorf("series '%s': %w", s.Name, err)
	}
	return nil
}

func validateSeries(s SeriesConfig) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	kind, err := source.ParseKind(s.Type)
	if err != nil {
		return fmt.Errorf("%w (want one of %s)", err, kindList())
	}
	if kind == source.KindPrometheus && strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("prometheus series need a source URL")
	}
	if s.Refresh < 0 {
		return fmt.Errorf("refresh can't be negative, got %g", s.Refresh)
	}
	if s.MetricsCapacity <= 0 {
		return fmt.Errorf("metrics_capacity must be positive, got %d", s.MetricsCapacity)
	}
	if s.Granularity < 0 {
		return fmt.Errorf("granularity can't be negative, got %g", s.Granularity)
	}
	if err := validateAlpha(s.Alpha); err != nil {
		return err
	}
	if _, err := geom.ParseColor(s.Color); err != nil {
		return err
	}
	if _, err := series.ParseCollisionPolicy(s.CollisionPolicy); err != nil {
		return err
	}
	if _, err := series.ParseMissingPolicy(s.MissingValuesPolicy); err != nil {
		return err
	}
	return nil
}

func validateDecoration(d DecorationConfig) error {
	switch d.Type {
	case "reference":
	case "alert":
		if strings.TrimSpace(d.Target) == "" {
			return fmt.Errorf("alert needs a target series")
		}
		if _, err := decoration.ParseComparator(d.Comparator); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown decoration type %q (want reference or alert)", d.Type)
	}
	if err := validateAlpha(d.Alpha); err != nil {
		return err
	}
	if _, err := geom.ParseColor(d.Color); err != nil {
		return err
	}
	return nil
}

func validateDecorator(d DecoratorConfig) error {
	if _, err := decor.ParseShape(d.Type); err != nil {
		return err
	}
	if _, err := decor.ParsePrimitive(d.Primitive); err != nil {
		return err
	}
	if err := validateAlpha(d.Alpha); err != nil {
		return err
	}
	if d.Radius <= 0 || d.Radius > 0.5 {
		return fmt.Errorf("radius must be in (0, 0.5], got %g", d.Radius)
	}
	if d.UpdateInterval < 0 {
		return fmt.Errorf("update_interval can't be negative, got %g", d.UpdateInterval)
	}
	if _, err := geom.ParseColor(d.Color); err != nil {
		return err
	}
	return nil
}

func validateAlpha(a float64) error {
	if a < 0 || a > 1 {
		return fmt.Errorf("alpha must be between 0 and 1, got %g", a)
	}
	return nil
}

func kindList() string {
	return strings.Join(lo.Map(source.Kinds, func(k source.Kind, _ int) string { return string(k) }), ", ")
}
