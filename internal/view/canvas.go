package view

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty); each dot is one bit.
const brailleBase = '\u2800'

// brailleDots maps [row][col] inside a cell to the dot's bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// Canvas is a braille raster of width x height cells, 2x4 dots each. The
// dot origin is the top-left corner. Each cell takes the color of the last
// dot drawn into it.
type Canvas struct {
	width, height int
	cells         [][]rune
	colors        [][]lipgloss.Color
}

// NewCanvas creates an empty canvas. Non-positive sizes give an empty canvas.
func NewCanvas(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &Canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]lipgloss.Color, height)
	for y := range c.cells {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := range c.cells[y] {
			c.cells[y][x] = brailleBase
		}
	}
	return c
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (int, int) {
	return c.width * 2, c.height * 4
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}
	col, row := x/2, y/4
	c.cells[row][col] |= rune(1) << brailleDots[y%4][x%2]
	c.colors[row][col] = color
}

// Line draws a straight dot line between two dot coordinates.
func (c *Canvas) Line(x0, y0, x1, y1 int, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Viewport maps normalized points into a rectangle of the canvas, given in
// cells. Normalized y grows upward; YMin is the lowest y that is drawn,
// below 0 to leave room for alert underlines.
type Viewport struct {
	X, Y, Width, Height float64
	YMin                float64
}

// dot converts a normalized point to dot coordinates.
func (v Viewport) dot(p geom.Point) (int, int) {
	ySpan := 1 - v.YMin
	if ySpan <= 0 {
		ySpan = 1
	}
	fx := v.X*2 + p.X*(v.Width*2-1)
	fy := v.Y*4 + (1-(p.Y-v.YMin)/ySpan)*(v.Height*4-1)
	return int(math.Round(fx)), int(math.Round(fy))
}

// Strip draws a connected polyline through pts.
func (c *Canvas) Strip(v Viewport, pts []geom.Point, color lipgloss.Color) {
	if len(pts) == 1 {
		x, y := v.dot(pts[0])
		c.Set(x, y, color)
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.dot(pts[i-1])
		x1, y1 := v.dot(pts[i])
		c.Line(x0, y0, x1, y1, color)
	}
}

// Segments draws independent segments from consecutive point pairs.
func (c *Canvas) Segments(v Viewport, pts []geom.Point, color lipgloss.Color) {
	for i := 0; i+1 < len(pts); i += 2 {
		x0, y0 := v.dot(pts[i])
		x1, y1 := v.dot(pts[i+1])
		c.Line(x0, y0, x1, y1, color)
	}
}

// Dots draws each point on its own.
func (c *Canvas) Dots(v Viewport, pts []geom.Point, color lipgloss.Color) {
	for _, p := range pts {
		x, y := v.dot(p)
		c.Set(x, y, color)
	}
}

// Render returns the canvas as styled text, one line per cell row. Runs of
// the same color share one style.
func (c *Canvas) Render() string {
	lines := make([]string, c.height)
	for y := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var runColor lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for x, r := range c.cells[y] {
			color := c.colors[y][x]
			ch := r
			if r == brailleBase {
				ch = ' '
				color = ""
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(ch)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
