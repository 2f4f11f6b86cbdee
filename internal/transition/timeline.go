package transition

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/tooltip"
)

// TooltipEvent records a tooltip being shown or hidden.
type TooltipEvent struct {
	At     time.Duration
	Shown  bool
	Text   string
	Anchor tooltip.Anchor
}

// LabelEvent records the label flags taking effect.
type LabelEvent struct {
	At    time.Duration
	Flags []axis.LabelFlag
}

// MarkTracks are the animated coordinates of one mark.
type MarkTracks struct {
	Label string
	X     *Track
	Y     *Track
}

// DomainTracks are the animated bounds of one axis ruler.
type DomainTracks struct {
	Min *Track
	Max *Track
}

// At evaluates the ruler's domain at t.
func (d DomainTracks) At(t time.Duration) scale.Domain {
	if d.Min == nil {
		return scale.Domain{}
	}
	return scale.Domain{Min: d.Min.At(t), Max: d.Max.At(t)}
}

// MarkFrame is a mark's position at one instant.
type MarkFrame struct {
	Label string
	X     float64
	Y     float64
}

// Frame is the whole chart at one instant.
type Frame struct {
	At      time.Duration
	Width   float64
	Height  float64
	Marks   []MarkFrame
	XDomain scale.Domain
	YDomain scale.Domain
	Labels  []axis.LabelFlag
	Tooltip *TooltipEvent
}

// Timeline is a Surface that records every task against a clock so that
// renderers can replay the chart at any instant. It also acts as the
// tooltip widget.
type Timeline struct {
	clock Clock

	mu       sync.RWMutex
	width    float64
	height   float64
	marks    []MarkTracks
	domains  [2]DomainTracks
	labels   []LabelEvent
	tooltips []TooltipEvent
	version  uint64
}

var (
	_ Surface        = (*Timeline)(nil)
	_ Locator        = (*Timeline)(nil)
	_ tooltip.Widget = (*Timeline)(nil)
)

// versions is shared by every timeline, so a version also tells timelines
// apart.
var versions atomic.Uint64

// NewTimeline creates an empty timeline on clock.
func NewTimeline(clock Clock) *Timeline {
	return &Timeline{clock: clock}
}

// Clock returns the timeline's clock.
func (tl *Timeline) Clock() Clock {
	return tl.clock
}

// Setup places the initial scene at the current time.
func (tl *Timeline) Setup(sc Scene) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.width, tl.height = sc.Width, sc.Height
	tl.marks = make([]MarkTracks, len(sc.Marks))
	for i, m := range sc.Marks {
		tl.marks[i] = MarkTracks{Label: m.Label, X: NewTrack(m.X), Y: NewTrack(m.Y)}
	}
	tl.domains[column.X] = DomainTracks{Min: NewTrack(sc.XDomain.Min), Max: NewTrack(sc.XDomain.Max)}
	tl.domains[column.Y] = DomainTracks{Min: NewTrack(sc.YDomain.Min), Max: NewTrack(sc.YDomain.Max)}
	tl.labels = []LabelEvent{{At: tl.clock.Now(), Flags: sc.Labels}}
	tl.tooltips = nil
	tl.version = versions.Add(1)
}

// AnimateAxis moves an axis ruler from the task's old scale to its new one.
// Like a d3 axis, the ruler starts from the scale it was last given, even
// if an earlier animation has not reached it yet.
func (tl *Timeline) AnimateAxis(task AxisTask) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	d := tl.domains[task.Axis]
	if d.Min == nil {
		return
	}
	now := tl.clock.Now()
	d.Min.RetargetFrom(now, task.From.Min, task.To.Min, task.Duration)
	d.Max.RetargetFrom(now, task.From.Max, task.To.Max, task.Duration)
	tl.version = versions.Add(1)
}

// AnimateMark retargets one mark coordinate. Unknown indices are ignored.
func (tl *Timeline) AnimateMark(task MarkTask) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if task.Index < 0 || task.Index >= len(tl.marks) {
		return
	}
	m := tl.marks[task.Index]
	tr := m.X
	if task.Attr == CY {
		tr = m.Y
	}
	tr.Retarget(tl.clock.Now(), task.To, task.Duration)
	tl.version = versions.Add(1)
}

// SetLabels records new label flags.
func (tl *Timeline) SetLabels(flags []axis.LabelFlag) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	cp := make([]axis.LabelFlag, len(flags))
	copy(cp, flags)
	tl.labels = append(tl.labels, LabelEvent{At: tl.clock.Now(), Flags: cp})
	tl.version = versions.Add(1)
}

// Show records a tooltip appearing.
func (tl *Timeline) Show(text string, at tooltip.Anchor) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.tooltips = append(tl.tooltips, TooltipEvent{At: tl.clock.Now(), Shown: true, Text: text, Anchor: at})
	tl.version = versions.Add(1)
}

// Hide records the tooltip disappearing.
func (tl *Timeline) Hide() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.tooltips = append(tl.tooltips, TooltipEvent{At: tl.clock.Now()})
	tl.version = versions.Add(1)
}

// Version changes whenever something is recorded. No two timelines share a
// non-zero version.
func (tl *Timeline) Version() uint64 {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.version
}

// Len returns the number of marks.
func (tl *Timeline) Len() int {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return len(tl.marks)
}

// Size returns the plot area in pixels.
func (tl *Timeline) Size() (width, height float64) {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.width, tl.height
}

// Frame evaluates the chart at t.
func (tl *Timeline) Frame(t time.Duration) Frame {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	f := Frame{
		At:      t,
		Width:   tl.width,
		Height:  tl.height,
		Marks:   make([]MarkFrame, len(tl.marks)),
		XDomain: tl.domains[column.X].At(t),
		YDomain: tl.domains[column.Y].At(t),
	}
	for i, m := range tl.marks {
		f.Marks[i] = MarkFrame{Label: m.Label, X: m.X.At(t), Y: m.Y.At(t)}
	}
	if ev, ok := tl.labelsAt(t); ok {
		f.Labels = ev.Flags
	}
	if ev, ok := tl.tooltipAt(t); ok && ev.Shown {
		tip := ev
		f.Tooltip = &tip
	}
	return f
}

// Now evaluates the chart at the clock's current time.
func (tl *Timeline) Now() Frame {
	return tl.Frame(tl.clock.Now())
}

// End returns when the last recorded animation finishes.
func (tl *Timeline) End() time.Duration {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	var end time.Duration
	grow := func(tr *Track) {
		if e := tr.End(); e > end {
			end = e
		}
	}
	for _, m := range tl.marks {
		grow(m.X)
		grow(m.Y)
	}
	for _, d := range tl.domains {
		if d.Min != nil {
			grow(d.Min)
			grow(d.Max)
		}
	}
	for _, ev := range tl.labels {
		if ev.At > end {
			end = ev.At
		}
	}
	for _, ev := range tl.tooltips {
		if ev.At > end {
			end = ev.At
		}
	}
	return end
}

// Settled reports whether nothing is moving at t. A chart can settle
// several times, between interactions as well as after the last one.
func (tl *Timeline) Settled(t time.Duration) bool {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	for _, m := range tl.marks {
		if m.X.Moving(t) || m.Y.Moving(t) {
			return false
		}
	}
	for _, d := range tl.domains {
		if d.Min != nil && (d.Min.Moving(t) || d.Max.Moving(t)) {
			return false
		}
	}
	return true
}

// Locate returns where mark i is drawn at the clock's current time.
func (tl *Timeline) Locate(i int) (x, y float64, ok bool) {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	if i < 0 || i >= len(tl.marks) {
		return 0, 0, false
	}
	now := tl.clock.Now()
	m := tl.marks[i]
	return m.X.At(now), m.Y.At(now), true
}

// Mark returns the tracks of mark i. The tracks are shared; read them only
// while nothing else is recording.
func (tl *Timeline) Mark(i int) MarkTracks {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.marks[i]
}

// Domain returns the tracks of axis a's ruler.
func (tl *Timeline) Domain(a column.Axis) DomainTracks {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.domains[a]
}

// Labels returns every label change in time order.
func (tl *Timeline) Labels() []LabelEvent {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	out := make([]LabelEvent, len(tl.labels))
	copy(out, tl.labels)
	return out
}

// Tooltips returns every tooltip event in time order.
func (tl *Timeline) Tooltips() []TooltipEvent {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	out := make([]TooltipEvent, len(tl.tooltips))
	copy(out, tl.tooltips)
	return out
}

func (tl *Timeline) labelsAt(t time.Duration) (LabelEvent, bool) {
	i := sort.Search(len(tl.labels), func(i int) bool { return tl.labels[i].At > t })
	if i == 0 {
		return LabelEvent{}, false
	}
	return tl.labels[i-1], true
}

func (tl *Timeline) tooltipAt(t time.Duration) (TooltipEvent, bool) {
	i := sort.Search(len(tl.tooltips), func(i int) bool { return tl.tooltips[i].At > t })
	if i == 0 {
		return TooltipEvent{}, false
	}
	return tl.tooltips[i-1], true
}
