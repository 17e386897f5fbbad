// Package decor generates cosmetic background geometry: an optionally
// animated hexagon grid and a polar clock. Decorators do not read series
// data.
package decor

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// Shape selects the generated figure.
type Shape int

const (
	Hexagon Shape = iota
	// Nannou is the polar clock.
	Nannou
)

var shapeNames = map[Shape]string{
	Hexagon: "hexagon",
	Nannou:  "nannou",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape parses "hexagon" or "nannou".
func ParseShape(s string) (Shape, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	for k, name := range shapeNames {
		if raw == name {
			return k, nil
		}
	}
	return Hexagon, fmt.Errorf("unknown decorator type %q (want hexagon or nannou)", s)
}

// Primitive selects how Vertices is grouped: one point each for Points,
// pairs of segment endpoints for Lines, and triples for Triangles.
type Primitive int

const (
	Points Primitive = iota
	Lines
	Triangles
)

var primitiveNames = map[Primitive]string{
	Points:    "points",
	Lines:     "lines",
	Triangles: "triangles",
}

func (p Primitive) String() string {
	if n, ok := primitiveNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// ParsePrimitive parses "points", "lines" or "triangles".
func ParsePrimitive(s string) (Primitive, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	for k, name := range primitiveNames {
		if raw == name {
			return k, nil
		}
	}
	return Points, fmt.Errorf("unknown primitive %q (want points, lines or triangles)", s)
}

const (
	// DefaultUpdateInterval is how often a new set of points starts moving.
	DefaultUpdateInterval = 15 * time.Second
	// AnimationDuration is how long one point move lasts.
	AnimationDuration = 2 * time.Second
)

// Options configures a Decorator.
type Options struct {
	Shape     Shape
	Primitive Primitive
	Color     geom.Color
	Alpha     float64
	// Radius is the hexagon radius, or the outer clock radius, as a
	// fraction of the screen width.
	Radius         float64
	Animated       bool
	UpdateInterval time.Duration
	// Seed drives vertex selection for the point animation.
	Seed uint64
}

// Decorator owns the generated vertices for one background overlay.
// It is safe for concurrent use.
type Decorator struct {
	mu     sync.Mutex
	opts   Options
	width  float64
	height float64

	// grid holds six vertices per hexagon in screen units, before
	// animation and normalization.
	grid  []geom.Point
	verts []geom.Point

	rng     *rand.Rand
	start   time.Time
	chosen  []int
	offsets map[int]float64
}

// New creates a decorator sized to a unit screen. Call Resize once the
// real size is known.
func New(opts Options) *Decorator {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultUpdateInterval
	}
	d := &Decorator{
		opts:   opts,
		width:  1,
		height: 1,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	d.regenerate(time.Now())
	return d
}

// Options returns the decorator's configuration.
func (d *Decorator) Options() Options {
	return d.opts
}

// Resize regenerates the geometry for a screen of width x height cells.
// Non-positive sizes are ignored.
func (d *Decorator) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if width == d.width && height == d.height {
		return
	}
	d.width, d.height = width, height
	d.chosen = nil
	d.start = time.Time{}
	d.regenerate(time.Now())
}

// Tick advances the animation, or redraws the clock, for time now.
func (d *Decorator) Tick(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.opts.Shape {
	case Nannou:
		d.verts = d.clock(now)
	case Hexagon:
		if d.opts.Animated && d.opts.Primitive == Points {
			d.animate(now)
			d.verts = d.hexagons()
		}
	}
}

// Vertices returns a copy of the current geometry in normalized screen
// space, grouped according to the primitive.
func (d *Decorator) Vertices() []geom.Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]geom.Point, len(d.verts))
	copy(out, d.verts)
	return out
}

func (d *Decorator) regenerate(now time.Time) {
	switch d.opts.Shape {
	case Nannou:
		d.verts = d.clock(now)
	default:
		d.grid = hexGrid(d.width, d.height, d.opts.Radius*d.width)
		d.verts = d.hexagons()
	}
}

// normalize maps a screen-unit point into [0,1] space.
func (d *Decorator) normalize(p geom.Point) geom.Point {
	return geom.Point{X: p.X / d.width, Y: p.Y / d.height}
}
