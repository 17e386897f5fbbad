// Package view is the terminal renderer. It drives render frames with
// bubbletea, rasterizes chart snapshots and decorators onto a braille
// canvas and feeds the terminal I/O counters: key presses count as input
// and rendered bytes as output.
package view

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/chartty/internal/chart"
	"github.com/rileyhilliard/chartty/internal/decor"
	"github.com/rileyhilliard/chartty/internal/termio"
)

// DefaultFrameInterval is used when Options.FrameInterval is not positive.
const DefaultFrameInterval = 100 * time.Millisecond

// Source supplies what each frame draws. *engine.Engine implements it.
type Source interface {
	Snapshots() []chart.Snapshot
	Decorators() []*decor.Decorator
	Counters() *termio.Counters
}

// Options configures a Model.
type Options struct {
	FrameInterval time.Duration
	// Title is shown in the header.
	Title string
}

// Model is the Bubble Tea model for the chart overlay.
type Model struct {
	src      Source
	counters *termio.Counters
	interval time.Duration
	title    string

	help       help.Model
	width      int
	height     int
	snaps      []chart.Snapshot
	frames     uint64
	lastFrame  time.Time
	paused     bool
	hideLegend bool
	quitting   bool
}

// frameMsg signals a render frame.
type frameMsg time.Time

// NewModel creates the renderer for src.
func NewModel(src Source, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Title == "" {
		opts.Title = "chartty"
	}
	counters := src.Counters()
	if counters == nil {
		counters = &termio.Counters{}
	}
	return Model{
		src:      src,
		counters: counters,
		interval: opts.FrameInterval,
		title:    opts.Title,
		help:     help.New(),
		width:    80,
		height:   24,
	}
}

// Init schedules the first frame.
func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.counters.Input.Add(1)
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.Legend):
			m.hideLegend = !m.hideLegend
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := m.canvasSize()
		for _, d := range m.src.Decorators() {
			d.Resize(float64(w), float64(h))
		}

	case frameMsg:
		m.frame(time.Time(msg))
		return m, m.frameCmd()
	}

	return m, nil
}

// frame refreshes snapshots and advances decorators unless paused.
func (m *Model) frame(at time.Time) {
	m.frames++
	m.lastFrame = at
	if m.paused {
		return
	}
	for _, d := range m.src.Decorators() {
		d.Tick(at)
	}
	m.snaps = m.src.Snapshots()
}

// View renders the frame and counts its bytes as terminal output.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	out := m.render()
	m.counters.Output.Add(uint64(len(out)))
	return out
}

func (m Model) render() string {
	w, h := m.canvasSize()

	sections := []string{m.renderHeader()}
	sections = append(sections, RenderScene(w, h, m.snaps, m.src.Decorators()))
	if !m.hideLegend && len(m.snaps) > 0 {
		sections = append(sections, RenderLegend(m.snaps))
	}
	sections = append(sections, FooterStyle.Render(m.help.View(keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	parts := []string{m.title}
	if !m.lastFrame.IsZero() {
		parts = append(parts, m.lastFrame.Format("15:04:05"))
	}
	parts = append(parts,
		"in "+FormatValue(float64(m.counters.Input.Load())),
		"out "+FormatValue(float64(m.counters.Output.Load())),
		"items "+FormatValue(float64(m.counters.AsyncItems.Load())),
	)
	header := HeaderStyle.Render(strings.Join(parts, "  "))
	if m.paused {
		header += " " + PausedStyle.Render("PAUSED")
	}
	return header
}

// canvasSize returns the cells left for the canvas after the header,
// legend and footer.
func (m Model) canvasSize() (int, int) {
	reserved := 2 // header and footer
	if !m.hideLegend {
		reserved += 2 + m.legendRows()
	}
	if m.help.ShowAll {
		reserved++
	}
	return max(m.width, 1), max(m.height-reserved, 1)
}

// legendRows is the tallest chart's series count plus its name line.
func (m Model) legendRows() int {
	rows := 0
	for _, s := range m.snaps {
		rows = max(rows, len(s.Series)+1)
	}
	return rows
}

// frameCmd returns a command that sends the next frame tick.
func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Frames returns how many frame ticks the model has handled.
func (m Model) Frames() uint64 {
	return m.frames
}

// Paused reports whether snapshots are frozen.
func (m Model) Paused() bool {
	return m.paused
}
