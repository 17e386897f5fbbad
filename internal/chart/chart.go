// Package chart composes series buffers, their source adapters and the
// chart's decorations, and produces immutable per-frame snapshots for the
// renderer.
package chart

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/decoration"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/series"
	"github.com/rileyhilliard/chartty/internal/source"
	"github.com/rileyhilliard/chartty/internal/termio"
)

// Deps are the shared collaborators a chart's adapters need.
type Deps struct {
	Counters *termio.Counters
	// HTTPClient is used by Prometheus series. Nil means http.DefaultClient.
	HTTPClient *http.Client
	Now        func() time.Time
}

// Series is one polled feed owned by a chart.
type Series struct {
	Name     string
	Kind     source.Kind
	Interval time.Duration
	Adapter  source.Adapter
	Buffer   *series.Buffer
	Color    geom.Color
	Alpha    float64
}

// Chart is a positioned group of series and decorations.
type Chart struct {
	Name       string
	Position   geom.Point
	Dimensions geom.Point

	series      []*Series
	byName      map[string]*Series
	decorations []decoration.Decoration
}

// New validates and builds a chart from its config. The config is expected
// to have been through config.ApplyDefaults and config.ApplyLayout. Any
// error is an ErrConfig that disables this chart only.
func New(cfg config.ChartConfig, deps Deps) (*Chart, error) {
	if err := config.ValidateChart(cfg); err != nil {
		return nil, err
	}
	if deps.Counters == nil {
		deps.Counters = &termio.Counters{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	c := &Chart{
		Name:   cfg.Name,
		byName: make(map[string]*Series, len(cfg.Series)),
	}
	if cfg.Position != nil {
		c.Position = *cfg.Position
	}
	if cfg.Dimensions != nil {
		c.Dimensions = *cfg.Dimensions
	}

	for _, sc := range cfg.Series {
		s, err := newSeries(sc, deps)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Chart '%s': series '%s' is invalid", cfg.Name, sc.Name),
				"Check the series section in chartty.yaml")
		}
		c.series = append(c.series, s)
		c.byName[s.Name] = s
	}

	for i, dc := range cfg.Decorations {
		d, err := c.newDecoration(dc)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Chart '%s': decoration #%d is invalid", cfg.Name, i+1),
				"Check the decorations section in chartty.yaml")
		}
		c.decorations = append(c.decorations, d)
	}

	return c, nil
}

func newSeries(sc config.SeriesConfig, deps Deps) (*Series, error) {
	kind, err := source.ParseKind(sc.Type)
	if err != nil {
		return nil, err
	}
	collision, err := series.ParseCollisionPolicy(sc.CollisionPolicy)
	if err != nil {
		return nil, err
	}
	missing, err := series.ParseMissingPolicy(sc.MissingValuesPolicy)
	if err != nil {
		return nil, err
	}
	color, err := geom.ParseColor(sc.Color)
	if err != nil {
		return nil, err
	}

	buf, err := series.New(series.Options{
		Capacity:    sc.MetricsCapacity,
		Granularity: sc.GranularityDuration(),
		Collision:   collision,
		Missing:     missing,
	})
	if err != nil {
		return nil, err
	}

	var adapter source.Adapter
	switch kind {
	case source.KindPrometheus:
		adapter, err = source.NewPrometheusQuery(source.PrometheusOptions{
			Source:   sc.Source,
			Labels:   sc.Labels,
			Capacity: sc.MetricsCapacity,
			Step:     sc.GranularityDuration(),
			Loaded:   &deps.Counters.AsyncItems,
			Client:   deps.HTTPClient,
			Now:      deps.Now,
		})
		if err != nil {
			return nil, err
		}
	case source.KindAsyncItems:
		adapter = source.NewAsyncItemCount(&deps.Counters.AsyncItems, deps.Now)
	default:
		counter, ok := deps.Counters.ByName(string(kind))
		if !ok {
			return nil, fmt.Errorf("no counter for series type %q", kind)
		}
		adapter = source.NewLocalCounter(kind, counter, deps.Now)
	}

	return &Series{
		Name:     sc.Name,
		Kind:     kind,
		Interval: sc.RefreshInterval(),
		Adapter:  adapter,
		Buffer:   buf,
		Color:    color,
		Alpha:    sc.Alpha,
	}, nil
}

func (c *Chart) newDecoration(dc config.DecorationConfig) (decoration.Decoration, error) {
	color, err := geom.ParseColor(dc.Color)
	if err != nil {
		return nil, err
	}
	switch decoration.Kind(dc.Type) {
	case decoration.KindReference:
		return decoration.Reference{
			Value:            dc.Value,
			HeightMultiplier: dc.HeightMultiplier,
			Color:            color,
			Alpha:            dc.Alpha,
		}, nil
	case decoration.KindAlert:
		if _, ok := c.byName[dc.Target]; !ok {
			return nil, fmt.Errorf("alert target %q is not a series of this chart", dc.Target)
		}
		cmp, err := decoration.ParseComparator(dc.Comparator)
		if err != nil {
			return nil, err
		}
		return decoration.Alert{
			Target:     dc.Target,
			Threshold:  dc.Threshold,
			Comparator: cmp,
			Color:      color,
			Alpha:      dc.Alpha,
		}, nil
	}
	return nil, fmt.Errorf("unknown decoration type %q", dc.Type)
}

// Series returns the chart's series in config order.
func (c *Chart) Series() []*Series {
	out := make([]*Series, len(c.series))
	copy(out, c.series)
	return out
}

// Decorations returns the chart's decorations in config order.
func (c *Chart) Decorations() []decoration.Decoration {
	out := make([]decoration.Decoration, len(c.decorations))
	copy(out, c.decorations)
	return out
}

// Latest implements decoration.Resolver against the live buffers.
func (c *Chart) Latest(name string) (series.Sample, bool) {
	s, ok := c.byName[name]
	if !ok {
		return series.Sample{}, false
	}
	return s.Buffer.Latest()
}
