// Package axis tracks which column drives each axis of the chart.
package axis

import (
	"fmt"

	"github.com/statehealth/scatter/internal/column"
)

// State holds the active column of each axis. The zero value is not valid;
// use Default.
type State struct {
	X column.Key
	Y column.Key
}

// Switch describes an applied change of one axis' active column.
type Switch struct {
	Axis column.Axis
	From column.Key
	To   column.Key
}

// LabelFlag is the rendered active/inactive flag of one axis label.
type LabelFlag struct {
	Column column.Descriptor
	Active bool
}

// Default returns the state a chart starts with.
func Default() State {
	return State{X: column.Poverty, Y: column.Healthcare}
}

// Active returns the active key of axis a.
func (s State) Active(a column.Axis) column.Key {
	if a == column.X {
		return s.X
	}
	return s.Y
}

// IsActive reports whether k drives its axis.
func (s State) IsActive(k column.Key) bool {
	return s.Active(column.AxisOf(k)) == k
}

// Switch applies a click on the label of clicked. A click on an already
// active label changes nothing and reports false.
func (s State) Switch(clicked column.Key) (State, Switch, bool) {
	a := column.AxisOf(clicked)
	prev := s.Active(a)
	if prev == clicked {
		return s, Switch{}, false
	}

	next := s
	if a == column.X {
		next.X = clicked
	} else {
		next.Y = clicked
	}
	return next, Switch{Axis: a, From: prev, To: clicked}, true
}

// Labels derives the six label flags from s, in registry order.
func (s State) Labels() []LabelFlag {
	all := column.All()
	out := make([]LabelFlag, len(all))
	for i, d := range all {
		out[i] = LabelFlag{Column: d, Active: s.Active(d.Axis) == d.Key}
	}
	return out
}

// FromLabels recovers the state a set of label flags was derived from. It
// reports false unless each axis has exactly one active label.
func FromLabels(flags []LabelFlag) (State, bool) {
	var s State
	var active [2]int
	for _, f := range flags {
		if !f.Active {
			continue
		}
		if f.Column.Axis == column.X {
			s.X = f.Column.Key
		} else {
			s.Y = f.Column.Key
		}
		active[f.Column.Axis]++
	}
	return s, active[column.X] == 1 && active[column.Y] == 1
}

// Validate checks that each slot holds a key of its own group.
func (s State) Validate() error {
	if !s.X.Valid() || column.AxisOf(s.X) != column.X {
		return fmt.Errorf("x axis bound to %s", s.X)
	}
	if !s.Y.Valid() || column.AxisOf(s.Y) != column.Y {
		return fmt.Errorf("y axis bound to %s", s.Y)
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("%s/%s", s.X, s.Y)
}
