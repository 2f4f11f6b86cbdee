package scale

import (
	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
)

// Point is a position in plot pixels.
type Point struct {
	X float64
	Y float64
}

// Mapper owns the X and Y scales of a plot. Ranges are fixed at
// construction; domains follow the active columns.
type Mapper struct {
	x *Scale
	y *Scale
}

// NewMapper creates scales for a plot area of width x height pixels. Y is
// inverted so larger values sit higher.
func NewMapper(width, height float64) *Mapper {
	return &Mapper{
		x: New(Domain{Min: 0, Max: 1}, Range{Low: 0, High: width}),
		y: New(Domain{Min: 0, Max: 1}, Range{Low: height, High: 0}),
	}
}

// UpdateDomain replaces the domain of axis a.
func (m *Mapper) UpdateDomain(a column.Axis, d Domain) {
	m.scale(a).SetDomain(d)
}

// Domain returns the current domain of axis a.
func (m *Mapper) Domain(a column.Axis) Domain {
	return m.scale(a).Domain()
}

// Scale returns a snapshot of the scale of axis a.
func (m *Mapper) Scale(a column.Axis) *Scale {
	return m.scale(a).Clone()
}

// MapPoint positions row under the active columns of s.
func (m *Mapper) MapPoint(row data.Row, s axis.State) Point {
	return Point{
		X: m.x.Map(row.Value(s.X)),
		Y: m.y.Map(row.Value(s.Y)),
	}
}

// MapValue maps a single value on axis a.
func (m *Mapper) MapValue(a column.Axis, v float64) float64 {
	return m.scale(a).Map(v)
}

func (m *Mapper) scale(a column.Axis) *Scale {
	if a == column.X {
		return m.x
	}
	return m.y
}
