// Package transition drives animated axis changes on a rendering surface.
package transition

import (
	"time"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/scale"
)

// DefaultDuration is how long an axis change animates.
const DefaultDuration = 1800 * time.Millisecond

// Attr is an animatable mark attribute.
type Attr int

const (
	CX Attr = iota
	CY
)

func (a Attr) String() string {
	if a == CX {
		return "cx"
	}
	return "cy"
}

// AttrFor returns the mark attribute positioned by axis a.
func AttrFor(a column.Axis) Attr {
	if a == column.X {
		return CX
	}
	return CY
}

// Mark is the initial placement of one row's mark.
type Mark struct {
	Label string
	X     float64
	Y     float64
}

// Scene is everything a surface draws before the first interaction.
type Scene struct {
	Width   float64
	Height  float64
	Marks   []Mark
	XDomain scale.Domain
	YDomain scale.Domain
	Labels  []axis.LabelFlag
}

// AxisTask animates an axis ruler from the domain it was last drawn with
// to a new one.
type AxisTask struct {
	Axis     column.Axis
	From     scale.Domain
	To       scale.Domain
	Duration time.Duration
}

// MarkTask animates one attribute of one mark toward a target.
type MarkTask struct {
	Index    int
	Attr     Attr
	To       float64
	Duration time.Duration
}

// Surface draws marks, axis rulers and labels. Animate calls return
// immediately; the surface runs each animation on its own.
type Surface interface {
	Setup(Scene)
	AnimateAxis(AxisTask)
	AnimateMark(MarkTask)
	SetLabels([]axis.LabelFlag)
}

// Locator is implemented by surfaces that can report where a mark is drawn
// right now, which differs from its target while it moves.
type Locator interface {
	Locate(i int) (x, y float64, ok bool)
}
