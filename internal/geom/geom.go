// Package geom holds the small value types shared by charts, decorations and
// the renderer: colors, points and value ranges.
package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts "0xRRGGBB", "#RRGGBB" or "RRGGBB".
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		raw = raw[2:]
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
	}
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("color %q must have six hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q is not hex: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseColor is ParseColor for package-level defaults.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb", the form lipgloss accepts.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the config form "0xRRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("0x%02X%02X%02X", c.R, c.G, c.B)
}

// Point is a 2D coordinate. In snapshots both axes are normalized to [0,1]
// relative to the owning chart, with values below 0 reserved for the area
// under the chart (alert underlines).
type Point struct {
	X float64 `yaml:"x" mapstructure:"x"`
	Y float64 `yaml:"y" mapstructure:"y"`
}

// Range is a closed value interval used to normalize series values.
type Range struct {
	Min, Max float64
	// Set is false until the first value is included.
	Set bool
}

// Include widens the range to cover v.
func (r Range) Include(v float64) Range {
	if !r.Set {
		return Range{Min: v, Max: v, Set: true}
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

// Normalize maps v into [0,1] over the range. A degenerate range maps
// every value to the middle.
func (r Range) Normalize(v float64) float64 {
	if !r.Set || r.Max == r.Min {
		return 0.5
	}
	return (v - r.Min) / (r.Max - r.Min)
}
