package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/session"
	"github.com/statehealth/scatter/internal/tooltip"
	"github.com/statehealth/scatter/internal/transition"
)

func newTestModel(t *testing.T) (Model, *session.Chart) {
	t.Helper()
	ds := data.NewDataset([]data.Row{
		data.NewRow("Alabama", "AL", map[column.Key]float64{
			column.Poverty: 18.5, column.Healthcare: 11.6, column.Smoker: 23.5,
			column.Obese: 35.6, column.Income: 43623, column.Age: 38.3,
		}),
		data.NewRow("Alaska", "AK", map[column.Key]float64{
			column.Poverty: 10.8, column.Healthcare: 14.6, column.Smoker: 22.6,
			column.Obese: 32.1, column.Income: 73355, column.Age: 33.6,
		}),
	})
	tl := transition.NewTimeline(&transition.ManualClock{})
	c := session.New(session.Config{
		Dataset: ds,
		Surface: tl,
		Widget:  tl,
		Width:   860,
		Height:  520,
		Offset:  tooltip.DefaultOffset,
		Quiet:   true,
	})
	return New(c, tl, nil), c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLabelKeys(t *testing.T) {
	m, c := newTestModel(t)

	m = update(t, m, runes("6"))
	if got := c.State().Y; got != column.Obese {
		t.Fatalf("expected obese on Y, got %s", got)
	}
	m = update(t, m, runes("2"))
	if got := c.State().X; got != column.Age {
		t.Fatalf("expected age on X, got %s", got)
	}

	m = update(t, m, runes("2"))
	if !strings.Contains(m.status, "already active") {
		t.Fatalf("expected no-op status, got %q", m.status)
	}
}

func TestMarkCursor(t *testing.T) {
	m, c := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if c.Shown() != 0 {
		t.Fatalf("expected tooltip on mark 0, got %d", c.Shown())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if c.Shown() != 1 {
		t.Fatalf("expected wrap to mark 1, got %d", c.Shown())
	}
	if !strings.Contains(m.View(), "Alaska") {
		t.Fatal("expected tooltip in view")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if c.Shown() != -1 || m.cursor != -1 {
		t.Fatalf("expected tooltip hidden, got shown=%d cursor=%d", c.Shown(), m.cursor)
	}
	if strings.Contains(m.View(), "Alaska") {
		t.Fatal("expected tooltip gone from view")
	}
}

func TestMouseLabelClick(t *testing.T) {
	m, c := newTestModel(t)

	// the third label row is income
	y := headerRows + m.plotRows() + tickRows + 2
	m = update(t, m, tea.MouseMsg{X: 3, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := c.State().X; got != column.Income {
		t.Fatalf("expected income on X, got %s", got)
	}

	update(t, m, tea.MouseMsg{X: 3, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := c.State().X; got != column.Income {
		t.Fatalf("expected header click to do nothing, got %s", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{"AL", "AK", "Poverty (%)", "Obese (%)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestExport(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, runes("s"))
	if !strings.Contains(m.status, "not available") {
		t.Fatalf("expected export to be unavailable, got %q", m.status)
	}

	calls := 0
	m.export = func() (string, error) {
		calls++
		return "out/chart.svg", nil
	}
	m = update(t, m, runes("s"))
	if calls != 1 || m.status != "exported out/chart.svg" {
		t.Fatalf("expected one export, got %d calls and status %q", calls, m.status)
	}
}
