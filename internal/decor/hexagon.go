package decor

import (
	"math"
	"time"

	"github.com/rileyhilliard/chartty/internal/geom"
)

const cos60 = 0.5

var sin60 = math.Sqrt(3) / 2

// Vertex order within a hexagon:
//
//	   2-------1
//	  /         \
//	 3           0
//	  \         /
//	   4-------5
const (
	vertsPerHexagon = 6
	vTopLeft        = 2
	vBottomLeft     = 4
	vTopRight       = 1
)

// hexagonVertices returns the six corners of the hexagon centred on (x, y).
func hexagonVertices(x, y, r float64) []geom.Point {
	dx := cos60 * r
	dy := sin60 * r
	return []geom.Point{
		{X: x + r, Y: y},
		{X: x + dx, Y: y + dy},
		{X: x - dx, Y: y + dy},
		{X: x - r, Y: y},
		{X: x - dx, Y: y - dy},
		{X: x + dx, Y: y - dy},
	}
}

// hexGrid tiles a width x height area with hexagons of radius r. Columns
// advance by 1.5·r and every other column is shifted half a hexagon up so
// neighbours interlock.
func hexGrid(width, height, r float64) []geom.Point {
	if r <= 0 {
		return nil
	}
	dx := cos60 * r
	dy := sin60 * r

	var out []geom.Point
	half := true
	for x := 0.0; x < width+dx; x += 3 * dx {
		for y := 0.0; y <= height+dy; y += 2 * dy {
			cy := y
			if half {
				cy += dy
			}
			out = append(out, hexagonVertices(x, cy, r)...)
		}
		half = !half
	}
	return out
}

// hexagons converts the grid into primitive-grouped normalized vertices,
// applying any in-progress point offsets.
func (d *Decorator) hexagons() []geom.Point {
	n := len(d.grid) / vertsPerHexagon
	switch d.opts.Primitive {
	case Lines:
		out := make([]geom.Point, 0, n*vertsPerHexagon*2)
		for h := 0; h < n; h++ {
			hex := d.grid[h*vertsPerHexagon : (h+1)*vertsPerHexagon]
			for i := range hex {
				out = append(out, d.normalize(hex[i]), d.normalize(hex[(i+1)%vertsPerHexagon]))
			}
		}
		return out
	case Triangles:
		out := make([]geom.Point, 0, n*vertsPerHexagon*3)
		for h := 0; h < n; h++ {
			hex := d.grid[h*vertsPerHexagon : (h+1)*vertsPerHexagon]
			center := geom.Point{X: (hex[0].X + hex[3].X) / 2, Y: hex[0].Y}
			for i := range hex {
				out = append(out, d.normalize(center), d.normalize(hex[i]), d.normalize(hex[(i+1)%vertsPerHexagon]))
			}
		}
		return out
	default:
		out := make([]geom.Point, len(d.grid))
		for i, p := range d.grid {
			if off, ok := d.offsets[i]; ok {
				p.X += off
			}
			out[i] = d.normalize(p)
		}
		return out
	}
}

// animate slides the top-left vertex of the chosen hexagons toward the
// top-right over AnimationDuration, once every UpdateInterval. A new set of
// hexagons is picked for each interval.
func (d *Decorator) animate(now time.Time) {
	interval := d.opts.UpdateInterval
	if d.start.IsZero() {
		d.start = now
		d.choose()
	}
	if now.Sub(d.start) >= interval {
		skipped := now.Sub(d.start) / interval
		d.start = d.start.Add(skipped * interval)
		d.choose()
	}

	d.offsets = nil
	elapsed := now.Sub(d.start)
	if elapsed < 0 || elapsed >= AnimationDuration {
		return
	}
	progress := float64(elapsed) / float64(AnimationDuration)
	d.offsets = make(map[int]float64, len(d.chosen))
	for _, h := range d.chosen {
		base := h * vertsPerHexagon
		topLeft := d.grid[base+vTopLeft]
		bottomLeft := d.grid[base+vBottomLeft]
		span := d.grid[base+vTopRight].X - topLeft.X
		d.offsets[base+vTopLeft] = bottomLeft.X + progress*span - topLeft.X
	}
}

// choose picks a fifth of the hexagons, at least one, to animate.
func (d *Decorator) choose() {
	total := len(d.grid) / vertsPerHexagon
	if total == 0 {
		d.chosen = nil
		return
	}
	n := max(total/5, 1)
	d.chosen = d.rng.Perm(total)[:n]
}

// Chosen returns the indices of the hexagons picked for the current
// animation window.
func (d *Decorator) Chosen() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int, len(d.chosen))
	copy(out, d.chosen)
	return out
}
