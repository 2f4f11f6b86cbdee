package transition

import (
	"sort"
	"time"

	"github.com/fogleman/ease"
)

// Segment is one animation of a value.
type Segment struct {
	Start    time.Duration
	Duration time.Duration
	From     float64
	To       float64
}

// End returns when the segment finishes.
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// At evaluates the segment at t with d3's default cubic in-out easing.
func (s Segment) At(t time.Duration) float64 {
	if s.Duration <= 0 || t >= s.End() {
		return s.To
	}
	if t <= s.Start {
		return s.From
	}
	p := float64(t-s.Start) / float64(s.Duration)
	return s.From + (s.To-s.From)*ease.InOutCubic(p)
}

// Running reports whether the segment is animating at t.
func (s Segment) Running(t time.Duration) bool {
	return s.Duration > 0 && t >= s.Start && t < s.End()
}

// Track is the animated history of one value. A newer segment takes over
// when it starts; older segments are never removed.
type Track struct {
	initial  float64
	segments []Segment
}

// NewTrack returns a track resting at v.
func NewTrack(v float64) *Track {
	return &Track{initial: v}
}

// Initial returns the value before any segment.
func (tr *Track) Initial() float64 {
	return tr.initial
}

// Segments returns the recorded segments in start order.
func (tr *Track) Segments() []Segment {
	out := make([]Segment, len(tr.segments))
	copy(out, tr.segments)
	return out
}

// Retarget starts a new animation at time at toward to, from wherever the
// value is at that moment.
func (tr *Track) Retarget(at time.Duration, to float64, d time.Duration) {
	tr.RetargetFrom(at, tr.At(at), to, d)
}

// RetargetFrom starts a new animation at time at from from toward to.
func (tr *Track) RetargetFrom(at time.Duration, from, to float64, d time.Duration) {
	seg := Segment{Start: at, Duration: d, From: from, To: to}
	i := sort.Search(len(tr.segments), func(i int) bool {
		return tr.segments[i].Start > at
	})
	tr.segments = append(tr.segments, Segment{})
	copy(tr.segments[i+1:], tr.segments[i:])
	tr.segments[i] = seg
}

// At evaluates the track at t.
func (tr *Track) At(t time.Duration) float64 {
	i := sort.Search(len(tr.segments), func(i int) bool {
		return tr.segments[i].Start > t
	})
	if i == 0 {
		return tr.initial
	}
	return tr.segments[i-1].At(t)
}

// Moving reports whether the value is animating at t. Only the segment in
// effect counts; a superseded one may still be running.
func (tr *Track) Moving(t time.Duration) bool {
	i := sort.Search(len(tr.segments), func(i int) bool {
		return tr.segments[i].Start > t
	})
	return i > 0 && tr.segments[i-1].Running(t)
}

// Final returns the value once every segment has finished.
func (tr *Track) Final() float64 {
	if len(tr.segments) == 0 {
		return tr.initial
	}
	return tr.segments[len(tr.segments)-1].To
}

// End returns when the value comes to rest.
func (tr *Track) End() time.Duration {
	if len(tr.segments) == 0 {
		return 0
	}
	return tr.segments[len(tr.segments)-1].End()
}
