package decoration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/series"
)

type staticResolver map[string]float64

func (r staticResolver) Latest(name string) (series.Sample, bool) {
	v, ok := r[name]
	if !ok {
		return series.Sample{}, false
	}
	return series.Sample{Time: time.Unix(0, 0), Value: v}, true
}

var red = geom.Color{R: 255}

func TestParseComparator(t *testing.T) {
	tests := []struct {
		in      string
		want    Comparator
		wantErr bool
	}{
		{in: "<", want: Less},
		{in: "<=", want: LessEqual},
		{in: "=", want: Equal},
		{in: "==", want: Equal},
		{in: " >= ", want: GreaterEqual},
		{in: ">", want: Greater},
		{in: "!=", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComparator(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}
}

func TestComparator_Compare(t *testing.T) {
	tests := []struct {
		cmp       Comparator
		value     float64
		threshold float64
		want      bool
	}{
		{Greater, 5, 3, true},
		{Less, 5, 3, false},
		{Greater, 3, 3, false},
		{GreaterEqual, 3, 3, true},
		{LessEqual, 3, 3, true},
		{Less, 2, 3, true},
		{Equal, 0.1 + 0.2, 0.3, true},
		{Equal, 0.31, 0.3, false},
		{LessEqual, 0.3 + 1e-12, 0.3, true},
		{GreaterEqual, 3 - 1e-10, 3, true},
		{Equal, 1 + 1e-8, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.cmp.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmp.Compare(tt.value, tt.threshold))
		})
	}
}

func TestAlert_Active(t *testing.T) {
	r := staticResolver{"load": 5}

	assert.True(t, Alert{Target: "load", Threshold: 3, Comparator: Greater}.Active(r))
	assert.False(t, Alert{Target: "load", Threshold: 3, Comparator: Less}.Active(r))
	assert.False(t, Alert{Target: "missing", Threshold: 3, Comparator: Greater}.Active(r))
}

func TestAlert_GeometryBelowChart(t *testing.T) {
	a := Alert{Target: "load", Threshold: 3, Comparator: Greater, Color: red, Alpha: 0.5}
	g := a.Geometry(staticResolver{"load": 5}, geom.Range{})

	assert.Equal(t, KindAlert, g.Kind)
	assert.True(t, g.Active)
	require.NotEmpty(t, g.Vertices)
	for _, v := range g.Vertices {
		assert.Less(t, v.Y, 0.0)
		assert.GreaterOrEqual(t, v.X, 0.0)
		assert.LessOrEqual(t, v.X, 1.0)
	}
}

func TestReference(t *testing.T) {
	ref := Reference{Value: 10, HeightMultiplier: 0.1, Color: red, Alpha: 1}

	lo, hi, ok := ref.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 9, lo, 1e-9)
	assert.InDelta(t, 11, hi, 1e-9)

	window := geom.Range{}.Include(0).Include(20)
	g := ref.Geometry(nil, window)
	assert.True(t, g.Active)
	require.Len(t, g.Vertices, 6)
	assert.InDelta(t, 0.55, g.Vertices[0].Y, 1e-9)
	assert.InDelta(t, 0.45, g.Vertices[1].Y, 1e-9)
	assert.InDelta(t, 0.5, g.Vertices[2].Y, 1e-9)
	assert.Equal(t, 1.0, g.Vertices[3].X)
}

func TestReference_NegativeValue(t *testing.T) {
	lo, hi, _ := Reference{Value: -10, HeightMultiplier: 0.5}.Bounds()
	assert.InDelta(t, -15, lo, 1e-9)
	assert.InDelta(t, -5, hi, 1e-9)
}

func TestWindow(t *testing.T) {
	decs := []Decoration{
		Reference{Value: 100, HeightMultiplier: 0.05},
		Alert{Target: "x", Threshold: 1000},
	}
	base := geom.Range{}.Include(1).Include(2)

	w := Window(decs, base)
	assert.Equal(t, 1.0, w.Min)
	assert.InDelta(t, 105, w.Max, 1e-9)
}

func TestEvaluate_Emphasis(t *testing.T) {
	blue := geom.Color{B: 255}
	decs := []Decoration{
		Reference{Value: 1},
		Alert{Target: "a", Threshold: 10, Comparator: Greater, Color: blue},
		Alert{Target: "a", Threshold: 3, Comparator: Greater, Color: red},
		Alert{Target: "a", Threshold: 0, Comparator: Greater, Color: blue},
	}

	geoms, emphasis := Evaluate(decs, staticResolver{"a": 5}, geom.Range{})

	require.Len(t, geoms, 4)
	assert.False(t, geoms[1].Active)
	assert.True(t, geoms[2].Active)
	require.NotNil(t, emphasis)
	assert.Equal(t, red, *emphasis)
}

func TestEvaluate_NoActiveAlerts(t *testing.T) {
	decs := []Decoration{Alert{Target: "a", Threshold: 3, Comparator: Less}}
	_, emphasis := Evaluate(decs, staticResolver{"a": 5}, geom.Range{})
	assert.Nil(t, emphasis)
}
