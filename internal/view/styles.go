package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/chartty/internal/geom"
)

// Frame color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
)

// darkBg is ColorDarkBg as RGB, the color alpha blends toward.
var darkBg = geom.Color{R: 0x0A, G: 0x0A, B: 0x0F}

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// CardStyle frames one chart's legend.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	ChartNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)
)

// blend mixes c over the dark background by alpha and returns it as a
// terminal color.
func blend(c geom.Color, alpha float64) lipgloss.Color {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*alpha + float64(bg)*(1-alpha) + 0.5)
	}
	return lipgloss.Color(geom.Color{
		R: mix(c.R, darkBg.R),
		G: mix(c.G, darkBg.G),
		B: mix(c.B, darkBg.B),
	}.Hex())
}

// cardStyle borders a chart's card in its emphasis color, if any.
func cardStyle(emphasis *geom.Color) lipgloss.Style {
	if emphasis == nil {
		return CardStyle
	}
	return CardStyle.BorderForeground(lipgloss.Color(emphasis.Hex()))
}
