package chart

import (
	"github.com/rileyhilliard/chartty/internal/decoration"
	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/series"
)

// SeriesSnapshot is one series as of a frame.
type SeriesSnapshot struct {
	Name  string
	Color geom.Color
	Alpha float64
	// Points are chart-normalized: x = index/capacity, y over Window.
	Points    []geom.Point
	Samples   []series.Sample
	Latest    series.Sample
	HasLatest bool
	Stats     series.Stats
}

// Snapshot is an immutable view of a chart for one render frame.
type Snapshot struct {
	Name        string
	Position    geom.Point
	Dimensions  geom.Point
	Series      []SeriesSnapshot
	Decorations []decoration.Geometry
	// Emphasis is the color of the first active alert, if any.
	Emphasis *geom.Color
	Window   geom.Range
}

// Snapshot copies every buffer, one at a time, then normalizes and
// evaluates decorations against the copies so a frame is self-consistent.
func (c *Chart) Snapshot() Snapshot {
	snap := Snapshot{
		Name:       c.Name,
		Position:   c.Position,
		Dimensions: c.Dimensions,
		Series:     make([]SeriesSnapshot, len(c.series)),
	}

	var window geom.Range
	for i, s := range c.series {
		samples := s.Buffer.Snapshot()
		ss := SeriesSnapshot{
			Name:    s.Name,
			Color:   s.Color,
			Alpha:   s.Alpha,
			Samples: samples,
			Stats:   series.SampleStats(samples),
		}
		if n := len(samples); n > 0 {
			ss.Latest = samples[n-1]
			ss.HasLatest = true
		}
		for _, smp := range samples {
			window = window.Include(smp.Value)
		}
		snap.Series[i] = ss
	}
	window = decoration.Window(c.decorations, window)
	snap.Window = window

	for i, s := range c.series {
		capacity := float64(s.Buffer.Cap())
		samples := snap.Series[i].Samples
		points := make([]geom.Point, len(samples))
		for j, smp := range samples {
			points[j] = geom.Point{
				X: float64(j) / capacity,
				Y: window.Normalize(smp.Value),
			}
		}
		snap.Series[i].Points = points
	}

	snap.Decorations, snap.Emphasis = decoration.Evaluate(c.decorations, snapshotResolver(snap.Series), window)
	return snap
}

// snapshotResolver resolves alert targets from already-copied series.
type snapshotResolver []SeriesSnapshot

func (r snapshotResolver) Latest(name string) (series.Sample, bool) {
	for _, s := range r {
		if s.Name == name {
			return s.Latest, s.HasLatest
		}
	}
	return series.Sample{}, false
}

// Compact drops interior points of flat runs, keeping each run's first and
// last point so line rendering is unchanged.
func Compact(points []geom.Point) []geom.Point {
	if len(points) < 3 {
		out := make([]geom.Point, len(points))
		copy(out, points)
		return out
	}
	out := make([]geom.Point, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points)-1; i++ {
		if points[i-1].Y == points[i].Y && points[i].Y == points[i+1].Y {
			continue
		}
		out = append(out, points[i])
	}
	return append(out, points[len(points)-1])
}
