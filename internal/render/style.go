// Package render draws chart timelines as SVG documents and raster frames.
package render

import (
	"image/color"
	"math"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/pkg/colormap"
)

// Margin is the space around the plot area.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Layout is the size of the whole drawing.
type Layout struct {
	Width  int
	Height int
	Margin Margin
}

// PlotWidth returns the width of the plot area.
func (l Layout) PlotWidth() int {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// PlotHeight returns the height of the plot area.
func (l Layout) PlotHeight() int {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}

// Style contains drawing settings shared by all renderers.
type Style struct {
	Layout     Layout
	MarkRadius float64
	Fill       color.RGBA
	MarkColors []color.RGBA // per mark; overrides Fill when set
	TickCount  int
}

// MarkColor returns the fill of mark i.
func (s Style) MarkColor(i int) color.RGBA {
	if i < len(s.MarkColors) {
		return s.MarkColors[i]
	}
	return s.Fill
}

func (s Style) tickCount() int {
	if s.TickCount <= 0 {
		return 10
	}
	return s.TickCount
}

// ColorBy colors each row by its value of k, normalized over the column's
// data range.
func ColorBy(ds *data.Dataset, k column.Key, cmap colormap.Colormap) []color.RGBA {
	vals := ds.Values(k)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if !(span > 0) {
		span = 1
	}

	out := make([]color.RGBA, len(vals))
	for i, v := range vals {
		r, g, b, _ := cmap.At((v - lo) / span).RGBA()
		out[i] = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	}
	return out
}

// labelSlot returns where the n-th label of an axis group sits, relative
// to the plot origin. X labels are centered below the plot; Y labels are
// rotated and stacked left of it.
func (l Layout) labelSlot(a column.Axis, n int) (x, y float64) {
	if a == column.X {
		return float64(l.PlotWidth()) / 2, float64(l.PlotHeight()+l.Margin.Top) + 10 + 15*float64(n)
	}
	offsets := []float64{15, 35, 60}
	return -float64(l.Margin.Left) + offsets[n%len(offsets)], float64(l.PlotHeight()) / 2
}

// axisTicks pairs each tick value with its pixel position along an axis
// spanning [0, length]. Y positions run bottom-up.
func axisTicks(d scale.Domain, a column.Axis, length float64, n int) []tick {
	r := scale.Range{Low: 0, High: length}
	if a == column.Y {
		r = scale.Range{Low: length, High: 0}
	}
	s := scale.New(d, r)

	var out []tick
	for _, v := range s.Ticks(n) {
		out = append(out, tick{Value: v, Pos: s.Map(v)})
	}
	return out
}

type tick struct {
	Value float64
	Pos   float64
}
