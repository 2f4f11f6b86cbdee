// Package scale maps data values to pixel positions.
package scale

import (
	"math"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
)

// Padding factors keep extreme points off the plot edges.
const (
	MinPadding = 0.8
	MaxPadding = 1.1
)

// Domain is the data interval a scale maps from.
type Domain struct {
	Min float64
	Max float64
}

// Finite reports whether both bounds are real numbers.
func (d Domain) Finite() bool {
	return !math.IsNaN(d.Min) && !math.IsInf(d.Min, 0) &&
		!math.IsNaN(d.Max) && !math.IsInf(d.Max, 0)
}

// Contains reports whether v lies within d.
func (d Domain) Contains(v float64) bool {
	return v >= d.Min && v <= d.Max
}

// Lerp interpolates between d and to.
func (d Domain) Lerp(to Domain, t float64) Domain {
	return Domain{
		Min: d.Min + (to.Min-d.Min)*t,
		Max: d.Max + (to.Max-d.Max)*t,
	}
}

// ComputeDomain returns the padded domain of column k for axis a. X domains
// pad both ends; Y domains are anchored at zero. NaN cells are skipped. The
// dataset must not be empty.
func ComputeDomain(ds *data.Dataset, k column.Key, a column.Axis) Domain {
	lo, hi := extent(ds, k)
	if a == column.Y {
		return Domain{Min: 0, Max: hi * MaxPadding}
	}
	return Domain{Min: lo * MinPadding, Max: hi * MaxPadding}
}

func extent(ds *data.Dataset, k column.Key) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for i := 0; i < ds.Len(); i++ {
		v := ds.Row(i).Value(k)
		if math.IsNaN(v) {
			continue
		}
		if v < lo || math.IsNaN(lo) {
			lo = v
		}
		if v > hi || math.IsNaN(hi) {
			hi = v
		}
	}
	return lo, hi
}
