// Package decoration evaluates the data-reactive layer drawn over a chart:
// static reference bands and threshold alerts.
//
// Decorations hold no series pointers. An alert names its target series and
// reads it through a Resolver implemented by the owning chart, so a
// decoration can never outlive or mutate the data it watches.
package decoration

import (
	"math"

	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/series"
)

// Kind names a decoration type as written in config.
type Kind string

const (
	KindReference Kind = "reference"
	KindAlert     Kind = "alert"
)

// Alert underline placement, in chart-normalized y below the plot area.
const (
	alertLineY    = -0.05
	alertWhiskerY = -0.10
)

// Resolver looks up the most recent sample of a series by name.
type Resolver interface {
	Latest(name string) (series.Sample, bool)
}

// Geometry is one decoration's drawable output for a frame. Vertices form
// a line strip in chart-normalized coordinates.
type Geometry struct {
	Kind     Kind
	Color    geom.Color
	Alpha    float64
	Vertices []geom.Point
	// Active is always true for references. For alerts it is the result of
	// the comparison; inactive alerts are returned but not drawn.
	Active bool
}

// Decoration is a reference band or an alert.
type Decoration interface {
	Kind() Kind
	// Bounds returns the y-range the decoration needs visible. ok is false
	// when it does not affect the chart window.
	Bounds() (lo, hi float64, ok bool)
	Geometry(r Resolver, window geom.Range) Geometry
}

// Reference is a horizontal band at Value with whiskers at
// Value ± |Value|·HeightMultiplier.
type Reference struct {
	Value            float64
	HeightMultiplier float64
	Color            geom.Color
	Alpha            float64
}

func (r Reference) Kind() Kind { return KindReference }

// Bounds returns the whisker extents.
func (r Reference) Bounds() (float64, float64, bool) {
	h := math.Abs(r.Value * r.HeightMultiplier)
	return r.Value - h, r.Value + h, true
}

// Geometry traces the left whisker, the band and the right whisker as one
// strip.
func (r Reference) Geometry(_ Resolver, window geom.Range) Geometry {
	lo, hi, _ := r.Bounds()
	y := window.Normalize(r.Value)
	top := window.Normalize(hi)
	bottom := window.Normalize(lo)
	return Geometry{
		Kind:  KindReference,
		Color: r.Color,
		Alpha: r.Alpha,
		Vertices: []geom.Point{
			{X: 0, Y: top},
			{X: 0, Y: bottom},
			{X: 0, Y: y},
			{X: 1, Y: y},
			{X: 1, Y: bottom},
			{X: 1, Y: top},
		},
		Active: true,
	}
}

// Alert fires when the latest value of Target satisfies
// "latest <Comparator> Threshold".
type Alert struct {
	Target     string
	Threshold  float64
	Comparator Comparator
	Color      geom.Color
	Alpha      float64
}

func (a Alert) Kind() Kind { return KindAlert }

// Bounds is not ok: alerts draw under the chart.
func (a Alert) Bounds() (float64, float64, bool) { return 0, 0, false }

// Active reports whether the alert currently fires. A target without
// samples is inactive.
func (a Alert) Active(r Resolver) bool {
	latest, ok := r.Latest(a.Target)
	if !ok {
		return false
	}
	return a.Comparator.Compare(latest.Value, a.Threshold)
}

// Geometry is an underline below the chart with four whiskers hanging off
// it. Vertices are emitted whether or not the alert is active.
func (a Alert) Geometry(r Resolver, _ geom.Range) Geometry {
	return Geometry{
		Kind:  KindAlert,
		Color: a.Color,
		Alpha: a.Alpha,
		Vertices: []geom.Point{
			{X: 0, Y: alertWhiskerY},
			{X: 0, Y: alertLineY},
			{X: 0.1, Y: alertLineY},
			{X: 0.1, Y: alertWhiskerY},
			{X: 0.1, Y: alertLineY},
			{X: 0.9, Y: alertLineY},
			{X: 0.9, Y: alertWhiskerY},
			{X: 0.9, Y: alertLineY},
			{X: 1, Y: alertLineY},
			{X: 1, Y: alertWhiskerY},
		},
		Active: a.Active(r),
	}
}

// Window widens base to cover every decoration's bounds.
func Window(decs []Decoration, base geom.Range) geom.Range {
	w := base
	for _, d := range decs {
		if lo, hi, ok := d.Bounds(); ok {
			w = w.Include(lo).Include(hi)
		}
	}
	return w
}

// Evaluate computes every decoration's geometry for one frame, in order.
// The returned emphasis color is that of the first active alert, or nil.
func Evaluate(decs []Decoration, r Resolver, window geom.Range) ([]Geometry, *geom.Color) {
	out := make([]Geometry, 0, len(decs))
	var emphasis *geom.Color
	for _, d := range decs {
		g := d.Geometry(r, window)
		if g.Kind == KindAlert && g.Active && emphasis == nil {
			c := g.Color
			emphasis = &c
		}
		out = append(out, g)
	}
	return out, emphasis
}
