// Package column defines the catalog of plottable data columns.
package column

import (
	"fmt"
)

// Key identifies one of the six numeric fields of a state row.
type Key int

const (
	Poverty Key = iota
	Age
	Income
	Healthcare
	Smoker
	Obese

	// Count is the number of known keys.
	Count = 6
)

// Axis is the axis group a column belongs to.
type Axis int

const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Descriptor describes how a column is presented.
type Descriptor struct {
	Key           Key
	Axis          Axis
	Field         string // CSV header and label tag
	Label         string
	TooltipPrefix string
}

// registry is indexed by Key and ordered X group first.
var registry = [Count]Descriptor{
	{Key: Poverty, Axis: X, Field: "poverty", Label: "Poverty (%)", TooltipPrefix: "Poverty: "},
	{Key: Age, Axis: X, Field: "age_med", Label: "Age (Median)", TooltipPrefix: "Age: "},
	{Key: Income, Axis: X, Field: "hh_income_med", Label: "Household Income (Median)", TooltipPrefix: "Income: "},
	{Key: Healthcare, Axis: Y, Field: "hasHealthcare", Label: "Lacks Healthcare (%)", TooltipPrefix: "Lacks Healthcare: "},
	{Key: Smoker, Axis: Y, Field: "smoker", Label: "Smokes (%)", TooltipPrefix: "Smoker: "},
	{Key: Obese, Axis: Y, Field: "obese", Label: "Obese (%)", TooltipPrefix: "Obese: "},
}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	return k >= 0 && int(k) < Count
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return registry[k].Field
}

// Lookup returns the descriptor for k. It panics if k is not a known key:
// labels form a closed set, so an unknown key is a programming error.
func Lookup(k Key) Descriptor {
	if !k.Valid() {
		panic(fmt.Sprintf("column: unknown key %d", int(k)))
	}
	return registry[k]
}

// AxisOf returns the axis group of k.
func AxisOf(k Key) Axis {
	return Lookup(k).Axis
}

// ParseKey resolves a field name such as "hasHealthcare" to its key.
func ParseKey(field string) (Key, error) {
	for _, d := range registry {
		if d.Field == field {
			return d.Key, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", field)
}

// All returns every descriptor in registry order.
func All() []Descriptor {
	out := make([]Descriptor, Count)
	copy(out, registry[:])
	return out
}

// Group returns the three descriptors of one axis group in registry order.
func Group(a Axis) []Descriptor {
	out := make([]Descriptor, 0, Count/2)
	for _, d := range registry {
		if d.Axis == a {
			out = append(out, d)
		}
	}
	return out
}
