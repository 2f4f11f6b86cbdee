// Package tui runs the chart interactively in a terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/session"
	"github.com/statehealth/scatter/internal/transition"
)

// FrameInterval is how often the plot is redrawn.
const FrameInterval = time.Second / 30

const (
	headerRows  = 1
	tickRows    = 1
	footerRows  = 1
	gutterWidth = 8
	tipWidth    = 28
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#87CEEB")
	borderCol = lipgloss.Color("#243141")

	titleStyle    = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(baseDimFg)
	activeStyle   = lipgloss.NewStyle().Foreground(baseFg).Bold(true)
	markStyle     = lipgloss.NewStyle().Foreground(accentFg)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	tipStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
)

type tickMsg time.Time

// Exporter saves the chart's animation and returns where it went.
type Exporter func() (string, error)

// Model is the bubbletea model of one chart.
type Model struct {
	chart  *session.Chart
	tl     *transition.Timeline
	export Exporter
	labels []column.Descriptor

	width  int
	height int
	cursor int
	status string
}

// New creates a model over a chart drawing onto tl. export may be nil.
func New(chart *session.Chart, tl *transition.Timeline, export Exporter) Model {
	return Model{
		chart:  chart,
		tl:     tl,
		export: export,
		labels: column.All(),
		width:  80,
		height: 24,
		cursor: -1,
		status: "current axis: " + chart.State().String(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6":
			m.clickLabel(int(msg.String()[0] - '1'))
		case "s":
			m.save()
		case "tab":
			m.moveCursor(1)
		case "shift+tab":
			m.moveCursor(-1)
		case "esc":
			if m.cursor >= 0 {
				m.status = "current axis: " + m.chart.State().String()
				if err := m.chart.MouseOut(m.cursor); err != nil {
					m.status = err.Error()
				}
				m.cursor = -1
			}
		}
	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
			break
		}
		if i, ok := m.labelAt(msg.Y); ok {
			m.clickLabel(i)
		}
	}
	return m, nil
}

func (m *Model) clickLabel(i int) {
	if i < 0 || i >= len(m.labels) {
		return
	}
	k := m.labels[i].Key
	if m.chart.ClickLabel(k) {
		m.status = "current axis: " + m.chart.State().String()
	} else {
		m.status = k.String() + " is already active"
	}
	if m.cursor >= 0 {
		// the tooltip follows the live state
		_ = m.chart.ClickMark(m.cursor)
	}
}

func (m *Model) save() {
	if m.export == nil {
		m.status = "export is not available"
		return
	}
	where, err := m.export()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "exported " + where
}

func (m *Model) moveCursor(step int) {
	n := m.chart.Dataset().Len()
	if n == 0 {
		return
	}
	if m.cursor < 0 {
		if step > 0 {
			m.cursor = 0
		} else {
			m.cursor = n - 1
		}
	} else {
		m.cursor = ((m.cursor+step)%n + n) % n
	}
	if err := m.chart.ClickMark(m.cursor); err != nil {
		m.status = err.Error()
		return
	}
	m.status = m.chart.Dataset().Row(m.cursor).State
}

// plotRows is the height of the character grid.
func (m Model) plotRows() int {
	rows := m.height - headerRows - tickRows - len(m.labels) - footerRows
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (m Model) plotCols() int {
	cols := m.width - gutterWidth - tipWidth - 1
	if cols < 10 {
		cols = 10
	}
	return cols
}

// labelAt maps a screen row to a label index.
func (m Model) labelAt(y int) (int, bool) {
	first := headerRows + m.plotRows() + tickRows
	i := y - first
	return i, i >= 0 && i < len(m.labels)
}

func (m Model) View() string {
	f := m.tl.Now()

	header := titleStyle.Render("State health risks") + dimStyle.Render("  "+m.chart.State().String())
	plot := m.renderPlot(f)
	if tip := m.renderTooltip(f); tip != "" {
		plot = lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", tip)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left,
		header,
		plot,
		m.renderLabels(f.Labels),
		dimStyle.Render(m.status+"  1-6 axis  tab/shift+tab state  esc close  s export  q quit"),
	)
	return ui
}

func (m Model) renderPlot(f transition.Frame) string {
	rows, cols := m.plotRows(), m.plotCols()
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	place := func(i int, mk transition.MarkFrame) {
		if f.Width <= 0 || f.Height <= 0 {
			return
		}
		c := int(math.Round(mk.X / f.Width * float64(cols-2)))
		r := int(math.Round(mk.Y / f.Height * float64(rows-1)))
		if c < 0 || c >= cols-1 || r < 0 || r >= rows {
			return
		}
		style := markStyle
		if i == m.cursor {
			style = selectedStyle
		}
		label := mk.Label + "  "
		grid[r][c] = style.Render(label[:1])
		grid[r][c+1] = style.Render(label[1:2])
	}
	for i, mk := range f.Marks {
		if i != m.cursor {
			place(i, mk)
		}
	}
	if m.cursor >= 0 && m.cursor < len(f.Marks) {
		place(m.cursor, f.Marks[m.cursor])
	}

	yTicks := gutterTicks(f.YDomain, rows)
	var b strings.Builder
	for r, line := range grid {
		fmt.Fprintf(&b, "%*s│%s", gutterWidth-1, yTicks[r], strings.Join(line, ""))
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", gutterWidth) + xTickLine(f.XDomain, cols))
	return b.String()
}

// gutterTicks labels the top, middle and bottom rows with the Y domain.
func gutterTicks(d scale.Domain, rows int) []string {
	out := make([]string, rows)
	if !d.Finite() {
		return out
	}
	out[0] = shortNumber(d.Max)
	out[rows/2] = shortNumber((d.Min + d.Max) / 2)
	out[rows-1] = shortNumber(d.Min)
	return out
}

func xTickLine(d scale.Domain, cols int) string {
	if !d.Finite() {
		return ""
	}
	lo, mid, hi := shortNumber(d.Min), shortNumber((d.Min+d.Max)/2), shortNumber(d.Max)
	gap1 := cols/2 - len(lo) - len(mid)/2
	gap2 := cols - cols/2 - (len(mid) - len(mid)/2) - len(hi)
	if gap1 < 1 || gap2 < 1 {
		return lo + " " + hi
	}
	return lo + strings.Repeat(" ", gap1) + mid + strings.Repeat(" ", gap2) + hi
}

func shortNumber(v float64) string {
	switch {
	case math.Abs(v) >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case math.Abs(v) >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

func (m Model) renderLabels(flags []axis.LabelFlag) string {
	active := make(map[column.Key]bool, len(flags))
	for _, f := range flags {
		active[f.Column.Key] = f.Active
	}

	lines := make([]string, len(m.labels))
	for i, d := range m.labels {
		text := fmt.Sprintf("%d %s %s", i+1, d.Axis, d.Label)
		if active[d.Key] {
			lines[i] = activeStyle.Render("▸ " + text)
		} else {
			lines[i] = dimStyle.Render("  " + text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTooltip(f transition.Frame) string {
	if f.Tooltip == nil {
		return ""
	}
	return tipStyle.Width(tipWidth - 2).Render(f.Tooltip.Text)
}

// Run starts the interactive program and blocks until it quits.
func Run(chart *session.Chart, tl *transition.Timeline, export Exporter) error {
	p := tea.NewProgram(New(chart, tl, export), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
