package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{name: "0x prefix", input: "0x00FFFF", want: Color{R: 0, G: 255, B: 255}},
		{name: "hash prefix", input: "#ff0000", want: Color{R: 255}},
		{name: "bare", input: "1958A7", want: Color{R: 0x19, G: 0x58, B: 0xA7}},
		{name: "whitespace", input: " 0x010203 ", want: Color{R: 1, G: 2, B: 3}},
		{name: "too short", input: "0xFFF", wantErr: true},
		{name: "not hex", input: "0xGGGGGG", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorFormats(t *testing.T) {
	c := Color{R: 0x03, G: 0xDA, B: 0xC6}
	assert.Equal(t, "#03dac6", c.Hex())
	assert.Equal(t, "0x03DAC6", c.String())

	back, err := ParseColor(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestMustParseColorPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseColor("nope") })
}

func TestRange(t *testing.T) {
	var r Range
	assert.Equal(t, 0.5, r.Normalize(10), "empty range maps to the middle")

	r = r.Include(5)
	assert.Equal(t, 0.5, r.Normalize(5), "degenerate range maps to the middle")

	r = r.Include(1).Include(9)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 9.0, r.Max)
	assert.InDelta(t, 0.0, r.Normalize(1), 1e-12)
	assert.InDelta(t, 0.5, r.Normalize(5), 1e-12)
	assert.InDelta(t, 1.0, r.Normalize(9), 1e-12)
}
