package decor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/geom"
)

func TestParseShapeAndPrimitive(t *testing.T) {
	s, err := ParseShape("Hexagon")
	require.NoError(t, err)
	assert.Equal(t, Hexagon, s)

	s, err = ParseShape("nannou")
	require.NoError(t, err)
	assert.Equal(t, Nannou, s)

	_, err = ParseShape("square")
	assert.ErrorContains(t, err, "square")

	for _, name := range []string{"points", "lines", "triangles"} {
		p, err := ParsePrimitive(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}
	_, err = ParsePrimitive("quads")
	assert.Error(t, err)
}

func TestHexagonVertices(t *testing.T) {
	v := hexagonVertices(0, 0, 1)
	require.Len(t, v, 6)
	assert.InDelta(t, 1, v[0].X, 1e-9)
	assert.InDelta(t, 0.5, v[1].X, 1e-9)
	assert.InDelta(t, sin60, v[1].Y, 1e-9)
	assert.InDelta(t, -1, v[3].X, 1e-9)
	assert.Equal(t, v[vTopLeft].X, v[vBottomLeft].X)
}

func TestHexGrid_Columns(t *testing.T) {
	grid := hexGrid(10, 2, 1)
	require.NotEmpty(t, grid)
	assert.Zero(t, len(grid)%vertsPerHexagon)

	centers := map[float64]bool{}
	for i := 0; i < len(grid); i += vertsPerHexagon {
		centers[(grid[i].X+grid[i+3].X)/2] = true
	}
	// Columns at 0, 1.5, 3, ... up to width + cos60.
	assert.Len(t, centers, 7)
	assert.True(t, centers[1.5])

	assert.Nil(t, hexGrid(10, 10, 0))
}

func TestDecorator_Primitives(t *testing.T) {
	tests := []struct {
		prim    Primitive
		perHex  int
		grouped int
	}{
		{Points, 6, 1},
		{Lines, 12, 2},
		{Triangles, 18, 3},
	}

	for _, tt := range tests {
		t.Run(tt.prim.String(), func(t *testing.T) {
			d := New(Options{Shape: Hexagon, Primitive: tt.prim, Radius: 0.1})
			d.Resize(80, 24)

			hexes := len(d.grid) / vertsPerHexagon
			verts := d.Vertices()
			assert.Len(t, verts, hexes*tt.perHex)
			assert.Zero(t, len(verts)%tt.grouped)
		})
	}
}

func TestDecorator_ResizeNormalizes(t *testing.T) {
	d := New(Options{Shape: Hexagon, Primitive: Points, Radius: 0.05})
	d.Resize(100, 40)

	for _, v := range d.Vertices() {
		assert.GreaterOrEqual(t, v.X, -0.1)
		assert.LessOrEqual(t, v.X, 1.1)
	}

	before := len(d.Vertices())
	d.Resize(0, 10)
	assert.Len(t, d.Vertices(), before)
}

func TestDecorator_PointAnimation(t *testing.T) {
	d := New(Options{
		Shape:          Hexagon,
		Primitive:      Points,
		Radius:         0.1,
		Animated:       true,
		UpdateInterval: 10 * time.Second,
		Seed:           7,
	})
	d.Resize(80, 24)
	static := d.Vertices()

	start := time.Unix(1000, 0)
	d.Tick(start)
	chosen := d.Chosen()
	hexes := len(d.grid) / vertsPerHexagon
	require.Len(t, chosen, max(hexes/5, 1))

	d.Tick(start.Add(time.Second))
	moving := d.Vertices()
	h := chosen[0]
	idx := h*vertsPerHexagon + vTopLeft
	assert.Greater(t, moving[idx].X, static[idx].X)
	// Other vertices stay put.
	assert.Equal(t, static[idx+1], moving[idx+1])

	d.Tick(start.Add(3 * time.Second))
	assert.Equal(t, static, d.Vertices())

	d.Tick(start.Add(10 * time.Second))
	assert.Len(t, d.Chosen(), len(chosen))
}

func TestDecorator_NotAnimated(t *testing.T) {
	d := New(Options{Shape: Hexagon, Primitive: Points, Radius: 0.1})
	d.Resize(80, 24)
	before := d.Vertices()

	d.Tick(time.Unix(1000, 0))
	d.Tick(time.Unix(1001, 0))
	assert.Equal(t, before, d.Vertices())
	assert.Empty(t, d.Chosen())
}

func TestDecorator_Clock(t *testing.T) {
	d := New(Options{Shape: Nannou, Primitive: Points, Radius: 0.4})
	d.Resize(40, 40)

	noon := time.Date(2024, time.June, 15, 12, 0, 30, 0, time.UTC)
	d.Tick(noon)
	verts := d.Vertices()
	require.NotEmpty(t, verts)

	// The first ring starts at twelve o'clock.
	assert.InDelta(t, 0.5, verts[0].X, 1e-9)
	assert.Greater(t, verts[0].Y, 0.5)

	d.Tick(noon.Add(20 * time.Second))
	assert.NotEqual(t, verts, d.Vertices())
}

func TestArcPoints(t *testing.T) {
	arc := arcPoints(geom.Point{}, 1, 0.25)
	require.Len(t, arc, 17)
	assert.InDelta(t, 0, arc[0].X, 1e-9)
	assert.InDelta(t, 1, arc[0].Y, 1e-9)
	// A quarter turn clockwise ends at three o'clock.
	assert.InDelta(t, 1, arc[16].X, 1e-9)
	assert.InDelta(t, 0, arc[16].Y, 1e-9)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, daysIn(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, daysIn(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
