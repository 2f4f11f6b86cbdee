// Package session handles user events on a chart.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/tooltip"
	"github.com/statehealth/scatter/internal/transition"
)

// Config contains chart configuration.
type Config struct {
	Dataset  *data.Dataset
	Surface  transition.Surface
	Widget   tooltip.Widget
	Width    float64 // plot area, excluding margins
	Height   float64
	Offset   tooltip.Offset
	Duration time.Duration
	Quiet    bool // suppress click logging
}

// Chart owns the axis state of one chart. Every handler runs to completion
// under the chart's lock, so a scale update and its state change are never
// observed apart.
type Chart struct {
	ds      *data.Dataset
	widget  tooltip.Widget
	locator transition.Locator
	offset  tooltip.Offset
	quiet   bool

	mu     sync.Mutex
	state  axis.State
	mapper *scale.Mapper
	orch   *transition.Orchestrator
	shown  int
}

// New creates a chart in its default state and draws the initial scene.
func New(cfg Config) *Chart {
	mapper := scale.NewMapper(cfg.Width, cfg.Height)

	orch := transition.NewOrchestrator(transition.Config{
		Dataset:  cfg.Dataset,
		Mapper:   mapper,
		Surface:  cfg.Surface,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Duration: cfg.Duration,
	})

	c := &Chart{
		ds:     cfg.Dataset,
		widget: cfg.Widget,
		offset: cfg.Offset,
		quiet:  cfg.Quiet,
		state:  axis.Default(),
		mapper: mapper,
		orch:   orch,
		shown:  -1,
	}
	if l, ok := cfg.Surface.(transition.Locator); ok {
		c.locator = l
	}
	c.orch.Start(c.state)
	return c
}

// State returns the active columns.
func (c *Chart) State() axis.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Labels returns the current label flags.
func (c *Chart) Labels() []axis.LabelFlag {
	return c.State().Labels()
}

// Domain returns the current domain of axis a.
func (c *Chart) Domain(a column.Axis) scale.Domain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapper.Domain(a)
}

// Dataset returns the chart's dataset.
func (c *Chart) Dataset() *data.Dataset {
	return c.ds
}

// ClickLabel handles a click on the axis label of k. It reports whether the
// click changed anything; clicking the active label does nothing.
func (c *Chart) ClickLabel(k column.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logf("[session] current axis: %s", k)

	next, sw, ok := c.state.Switch(k)
	if !ok {
		return false
	}
	c.state = next
	c.orch.OnColumnSwitch(next, sw)
	return true
}

// MapPoint returns where mark i rests under the current state.
func (c *Chart) MapPoint(i int) scale.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapper.MapPoint(c.ds.Row(i), c.state)
}

// ClickMark shows the tooltip of mark i next to where the mark is drawn,
// which is its target unless the surface reports a mark still moving.
func (c *Chart) ClickMark(i int) error {
	if i < 0 || i >= c.ds.Len() {
		return fmt.Errorf("no mark %d", i)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.ds.Row(i)
	p := c.mapper.MapPoint(row, c.state)
	at := tooltip.Anchor{X: p.X, Y: p.Y}
	if c.locator != nil {
		if x, y, ok := c.locator.Locate(i); ok {
			at = tooltip.Anchor{X: x, Y: y}
		}
	}

	text := tooltip.Format(row, c.state.X, c.state.Y)
	c.shown = i
	if c.widget != nil {
		c.widget.Show(text, c.offset.Apply(at))
	}
	return nil
}

// MouseOut hides the tooltip when the pointer leaves mark i.
func (c *Chart) MouseOut(i int) error {
	if i < 0 || i >= c.ds.Len() {
		return fmt.Errorf("no mark %d", i)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.shown = -1
	if c.widget != nil {
		c.widget.Hide()
	}
	return nil
}

// Shown returns the mark whose tooltip is visible, or -1.
func (c *Chart) Shown() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

func (c *Chart) logf(format string, args ...interface{}) {
	if !c.quiet {
		log.Printf(format, args...)
	}
}
