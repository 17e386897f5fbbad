package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/chartty/internal/chart"
	"github.com/rileyhilliard/chartty/internal/decor"
	"github.com/rileyhilliard/chartty/internal/decoration"
	"github.com/rileyhilliard/chartty/internal/geom"
)

// alertFloor is the lowest normalized y drawn inside a chart's area. Alert
// underlines live between it and 0.
const alertFloor = -0.1

// legendSparkWidth is the sparkline width in legend cards.
const legendSparkWidth = 16

// RenderScene rasterizes decorators and chart snapshots onto a width x
// height braille canvas. Decorators are drawn first so charts sit on top.
func RenderScene(width, height int, snaps []chart.Snapshot, decorators []*decor.Decorator) string {
	c := NewCanvas(width, height)
	screen := Viewport{Width: float64(width), Height: float64(height)}

	for _, d := range decorators {
		opts := d.Options()
		color := blend(opts.Color, opts.Alpha)
		verts := d.Vertices()
		switch opts.Primitive {
		case decor.Lines:
			c.Segments(screen, verts, color)
		case decor.Triangles:
			for i := 0; i+2 < len(verts); i += 3 {
				c.Strip(screen, []geom.Point{verts[i], verts[i+1], verts[i+2], verts[i]}, color)
			}
		default:
			c.Dots(screen, verts, color)
		}
	}

	for _, snap := range snaps {
		drawChart(c, snap)
	}
	return c.Render()
}

func drawChart(c *Canvas, snap chart.Snapshot) {
	v := Viewport{
		X:      snap.Position.X,
		Y:      snap.Position.Y,
		Width:  snap.Dimensions.X,
		Height: snap.Dimensions.Y,
		YMin:   alertFloor,
	}

	for _, g := range snap.Decorations {
		if g.Kind == decoration.KindReference {
			c.Strip(v, g.Vertices, blend(g.Color, g.Alpha))
		}
	}
	for _, s := range snap.Series {
		c.Strip(v, chart.Compact(s.Points), blend(s.Color, s.Alpha))
	}
	for _, g := range snap.Decorations {
		if g.Kind == decoration.KindAlert && g.Active {
			c.Strip(v, g.Vertices, blend(g.Color, g.Alpha))
		}
	}
}

// RenderLegend renders one card per chart with each series' latest value,
// range and a sparkline. A chart with an active alert gets its border in
// the alert color.
func RenderLegend(snaps []chart.Snapshot) string {
	cards := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		lines := []string{ChartNameStyle.Render(snap.Name)}
		for _, s := range snap.Series {
			lines = append(lines, legendLine(s))
		}
		cards = append(cards, cardStyle(snap.Emphasis).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func legendLine(s chart.SeriesSnapshot) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Hex())).Render("●")
	if !s.HasLatest {
		return fmt.Sprintf("%s %s %s", swatch, LabelStyle.Render(s.Name), LabelStyle.Render("waiting"))
	}
	values := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		values[i] = smp.Value
	}
	return fmt.Sprintf("%s %s %s %s %s",
		swatch,
		LabelStyle.Render(s.Name),
		ValueStyle.Render(FormatValue(s.Latest.Value)),
		LabelStyle.Render(FormatValue(s.Stats.Min)+".."+FormatValue(s.Stats.Max)),
		lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Hex())).Render(Sparkline(values, legendSparkWidth)),
	)
}

// FormatValue prints v compactly: integers without decimals, large values
// with k/M/G suffixes.
func FormatValue(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', 1, 64) + "G"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "k"
	case v == float64(int64(v)):
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderText renders snapshots as plain lines stamped with the frame time
// at, for output that is not a terminal.
func RenderText(at time.Time, snaps []chart.Snapshot) string {
	var b strings.Builder
	for _, snap := range snaps {
		status := "ok"
		if snap.Emphasis != nil {
			status = "ALERT"
		}
		fmt.Fprintf(&b, "[%s] %s %s\n", at.Format("15:04:05"), snap.Name, status)
		for _, s := range snap.Series {
			if !s.HasLatest {
				fmt.Fprintf(&b, "  %-20s waiting\n", s.Name)
				continue
			}
			values := make([]float64, len(s.Samples))
			for i, smp := range s.Samples {
				values[i] = smp.Value
			}
			fmt.Fprintf(&b, "  %-20s latest=%s min=%s max=%s avg=%s n=%d %s\n",
				s.Name,
				FormatValue(s.Latest.Value),
				FormatValue(s.Stats.Min),
				FormatValue(s.Stats.Max),
				FormatValue(s.Stats.Avg),
				s.Stats.Count,
				Sparkline(values, legendSparkWidth))
		}
	}
	return b.String()
}
