package transition

import (
	"math"
	"testing"
	"time"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/tooltip"
)

type recordingSurface struct {
	scene  Scene
	axes   []AxisTask
	marks  []MarkTask
	labels [][]axis.LabelFlag
}

func (r *recordingSurface) Setup(sc Scene)                   { r.scene = sc }
func (r *recordingSurface) AnimateAxis(t AxisTask)           { r.axes = append(r.axes, t) }
func (r *recordingSurface) AnimateMark(t MarkTask)           { r.marks = append(r.marks, t) }
func (r *recordingSurface) SetLabels(flags []axis.LabelFlag) { r.labels = append(r.labels, flags) }

func testDataset() *data.Dataset {
	return data.NewDataset([]data.Row{
		data.NewRow("Alabama", "AL", map[column.Key]float64{
			column.Poverty: 18.5, column.Healthcare: 11.6, column.Smoker: 23.5,
			column.Obese: 35.6, column.Income: 43623, column.Age: 38.3,
		}),
		data.NewRow("Alaska", "AK", map[column.Key]float64{
			column.Poverty: 10.8, column.Healthcare: 14.6, column.Smoker: 22.6,
			column.Obese: 32.1, column.Income: 73355, column.Age: 33.6,
		}),
	})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOrchestrator_StartAndSwitch(t *testing.T) {
	ds := testDataset()
	mapper := scale.NewMapper(860, 520)
	surface := &recordingSurface{}
	o := NewOrchestrator(Config{
		Dataset: ds, Mapper: mapper, Surface: surface, Width: 860, Height: 520,
	})
	if o.Duration() != DefaultDuration {
		t.Fatalf("expected default duration, got %v", o.Duration())
	}

	s := axis.Default()
	o.Start(s)

	if len(surface.scene.Marks) != 2 || surface.scene.Marks[0].Label != "AL" {
		t.Fatalf("unexpected scene marks: %+v", surface.scene.Marks)
	}
	if !approx(surface.scene.XDomain.Min, 8.64) || !approx(surface.scene.XDomain.Max, 20.35) {
		t.Errorf("unexpected x domain %+v", surface.scene.XDomain)
	}
	if !approx(surface.scene.YDomain.Max, 16.06) {
		t.Errorf("unexpected y domain %+v", surface.scene.YDomain)
	}

	s, sw, ok := s.Switch(column.Obese)
	if !ok {
		t.Fatal("expected switch")
	}
	o.OnColumnSwitch(s, sw)

	if len(surface.axes) != 1 {
		t.Fatalf("expected 1 axis task, got %d", len(surface.axes))
	}
	at := surface.axes[0]
	if at.Axis != column.Y || !approx(at.From.Max, 16.06) || !approx(at.To.Max, 39.16) || at.To.Min != 0 {
		t.Errorf("unexpected axis task %+v", at)
	}
	if at.Duration != DefaultDuration {
		t.Errorf("unexpected duration %v", at.Duration)
	}

	if len(surface.marks) != ds.Len() {
		t.Fatalf("expected %d mark tasks, got %d", ds.Len(), len(surface.marks))
	}
	for _, mt := range surface.marks {
		if mt.Attr != CY {
			t.Errorf("expected cy task, got %s", mt.Attr)
		}
		want := mapper.MapValue(column.Y, ds.Row(mt.Index).Value(column.Obese))
		if !approx(mt.To, want) {
			t.Errorf("mark %d: expected target %v, got %v", mt.Index, want, mt.To)
		}
	}

	if len(surface.labels) != 1 {
		t.Fatalf("expected one label update, got %d", len(surface.labels))
	}
	for _, f := range surface.labels[0] {
		want := f.Column.Key == column.Obese || f.Column.Key == column.Poverty
		if f.Active != want {
			t.Errorf("label %s: expected active=%v", f.Column.Key, want)
		}
	}
}

func TestTimeline_Replay(t *testing.T) {
	ds := testDataset()
	clock := &ManualClock{}
	tl := NewTimeline(clock)
	mapper := scale.NewMapper(860, 520)
	o := NewOrchestrator(Config{
		Dataset: ds, Mapper: mapper, Surface: tl, Width: 860, Height: 520,
		Duration: time.Second,
	})

	s := axis.Default()
	o.Start(s)
	start := tl.Frame(0)

	clock.Set(2 * time.Second)
	s, sw, _ := s.Switch(column.Age)
	o.OnColumnSwitch(s, sw)

	before := tl.Frame(2 * time.Second)
	if before.Marks[0].X != start.Marks[0].X {
		t.Errorf("mark moved before its animation started")
	}
	if len(before.Labels) != column.Count {
		t.Fatalf("expected %d labels, got %d", column.Count, len(before.Labels))
	}

	end := tl.Frame(3 * time.Second)
	want := mapper.MapPoint(ds.Row(0), s)
	if !approx(end.Marks[0].X, want.X) || !approx(end.Marks[0].Y, start.Marks[0].Y) {
		t.Errorf("expected AL at %+v, got %+v", want, end.Marks[0])
	}
	if !approx(end.XDomain.Max, 1.1*38.3) {
		t.Errorf("unexpected x domain at rest %+v", end.XDomain)
	}
	if tl.End() != 3*time.Second || !tl.Settled(3*time.Second) || tl.Settled(2500*time.Millisecond) {
		t.Errorf("unexpected end %v", tl.End())
	}

	mid := tl.Frame(2500 * time.Millisecond)
	lo, hi := math.Min(start.Marks[0].X, want.X), math.Max(start.Marks[0].X, want.X)
	if mid.Marks[0].X <= lo || mid.Marks[0].X >= hi {
		t.Errorf("expected AL between %v and %v mid-flight, got %v", lo, hi, mid.Marks[0].X)
	}
}

func TestTimeline_Tooltip(t *testing.T) {
	clock := &ManualClock{}
	tl := NewTimeline(clock)
	tl.Setup(Scene{})

	clock.Set(time.Second)
	tl.Show("Alabama", tooltip.Anchor{X: 1, Y: 2})
	clock.Set(2 * time.Second)
	tl.Hide()

	if f := tl.Frame(500 * time.Millisecond); f.Tooltip != nil {
		t.Errorf("unexpected tooltip before show: %+v", f.Tooltip)
	}
	if f := tl.Frame(1500 * time.Millisecond); f.Tooltip == nil || f.Tooltip.Text != "Alabama" {
		t.Errorf("expected tooltip, got %+v", f.Tooltip)
	}
	if f := tl.Frame(3 * time.Second); f.Tooltip != nil {
		t.Errorf("expected tooltip hidden, got %+v", f.Tooltip)
	}
}

func newReplay(t *testing.T) (*Orchestrator, *Timeline, *ManualClock, *scale.Mapper) {
	t.Helper()
	clock := &ManualClock{}
	tl := NewTimeline(clock)
	mapper := scale.NewMapper(860, 520)
	o := NewOrchestrator(Config{
		Dataset: testDataset(), Mapper: mapper, Surface: tl, Width: 860, Height: 520,
		Duration: time.Second,
	})
	o.Start(axis.Default())
	return o, tl, clock, mapper
}

func TestTimeline_SettledBetweenSwitches(t *testing.T) {
	o, tl, clock, _ := newReplay(t)

	clock.Set(2 * time.Second)
	s, sw, _ := axis.Default().Switch(column.Age)
	o.OnColumnSwitch(s, sw)

	cases := map[time.Duration]bool{
		0:                       true,
		time.Second:             true,
		2 * time.Second:         false,
		2500 * time.Millisecond: false,
		3 * time.Second:         true,
	}
	for at, want := range cases {
		if got := tl.Settled(at); got != want {
			t.Errorf("Settled(%v): expected %v, got %v", at, want, got)
		}
	}
}

func TestTimeline_AxisStartsFromOldScale(t *testing.T) {
	o, tl, clock, _ := newReplay(t)

	s, sw, _ := axis.Default().Switch(column.Obese)
	o.OnColumnSwitch(s, sw)

	clock.Set(500 * time.Millisecond)
	s, sw, _ = s.Switch(column.Smoker)
	o.OnColumnSwitch(s, sw)

	if d := tl.Frame(500 * time.Millisecond).YDomain; !approx(d.Max, 39.16) {
		t.Errorf("expected the ruler to restart from the obese scale, got %+v", d)
	}
	if d := tl.Frame(1500 * time.Millisecond).YDomain; !approx(d.Max, 1.1*23.5) {
		t.Errorf("expected the smoker scale at rest, got %+v", d)
	}
}

func TestTimeline_Locate(t *testing.T) {
	o, tl, clock, mapper := newReplay(t)

	s, sw, _ := axis.Default().Switch(column.Obese)
	o.OnColumnSwitch(s, sw)
	clock.Set(300 * time.Millisecond)

	x, y, ok := tl.Locate(0)
	if !ok {
		t.Fatal("expected mark 0 to be located")
	}
	want := tl.Frame(300 * time.Millisecond).Marks[0]
	if x != want.X || y != want.Y {
		t.Errorf("expected %+v, got (%v, %v)", want, x, y)
	}
	if target := mapper.MapPoint(testDataset().Row(0), s); approx(y, target.Y) {
		t.Errorf("expected a moving mark away from its target %v", target.Y)
	}
	if _, _, ok := tl.Locate(5); ok {
		t.Error("expected unknown mark to be rejected")
	}
}
