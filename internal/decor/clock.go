package decor

import (
	"math"
	"time"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// clockRing is one arc of the polar clock: the fraction of a time unit
// elapsed, drawn at radius·multiplier.
type clockRing struct {
	multiplier float64
	fraction   func(time.Time) float64
}

var clockRings = []clockRing{
	{multiplier: 0.55, fraction: func(t time.Time) float64 {
		return (float64(t.Second()) + float64(t.Nanosecond())/1e9) / 60
	}},
	{multiplier: 0.65, fraction: func(t time.Time) float64 {
		return (float64(t.Minute()) + float64(t.Second())/60) / 60
	}},
	{multiplier: 0.75, fraction: func(t time.Time) float64 {
		return (float64(t.Hour()) + float64(t.Minute())/60) / 24
	}},
	{multiplier: 0.85, fraction: func(t time.Time) float64 {
		return float64(t.Day()) / float64(daysIn(t))
	}},
	{multiplier: 0.95, fraction: func(t time.Time) float64 {
		return float64(t.Month()) / 12
	}},
}

// arcSegments is the resolution of a full circle.
const arcSegments = 64

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// clock draws the rings centred on the screen, clockwise from twelve
// o'clock, and groups them for the primitive.
func (d *Decorator) clock(now time.Time) []geom.Point {
	side := math.Min(d.width, d.height)
	center := geom.Point{X: d.width / 2, Y: d.height / 2}

	var out []geom.Point
	for _, ring := range clockRings {
		r := d.opts.Radius * d.width * ring.multiplier
		if r > side/2 {
			r = side / 2 * ring.multiplier
		}
		arc := arcPoints(center, r, ring.fraction(now))
		switch d.opts.Primitive {
		case Lines:
			for i := 1; i < len(arc); i++ {
				out = append(out, d.normalize(arc[i-1]), d.normalize(arc[i]))
			}
		case Triangles:
			for i := 1; i < len(arc); i++ {
				out = append(out, d.normalize(center), d.normalize(arc[i-1]), d.normalize(arc[i]))
			}
		default:
			for _, p := range arc {
				out = append(out, d.normalize(p))
			}
		}
	}
	return out
}

// arcPoints returns the polyline of an arc covering fraction of a circle.
func arcPoints(center geom.Point, r, fraction float64) []geom.Point {
	fraction = math.Max(0, math.Min(1, fraction))
	steps := int(math.Ceil(fraction * arcSegments))
	if steps < 1 {
		steps = 1
	}
	out := make([]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		angle := math.Pi/2 - 2*math.Pi*fraction*float64(i)/float64(steps)
		out = append(out, geom.Point{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		})
	}
	return out
}
