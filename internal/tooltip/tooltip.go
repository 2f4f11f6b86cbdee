// Package tooltip formats the text shown for a selected mark.
package tooltip

import (
	"strconv"
	"strings"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
)

// Anchor is the point a tooltip is attached to, in plot pixels.
type Anchor struct {
	X float64
	Y float64
}

// Offset shifts a tooltip away from its mark.
type Offset struct {
	Top  float64
	Left float64
}

// DefaultOffset places the popup below and to the left of the mark.
var DefaultOffset = Offset{Top: 80, Left: -60}

// Apply returns a shifted by o.
func (o Offset) Apply(a Anchor) Anchor {
	return Anchor{X: a.X + o.Left, Y: a.Y + o.Top}
}

// Widget displays and hides a floating label.
type Widget interface {
	Show(text string, at Anchor)
	Hide()
}

// Format returns the tooltip for row: the state name followed by one line
// for each active column.
func Format(row data.Row, x, y column.Key) string {
	var b strings.Builder
	b.WriteString(row.State)
	for _, k := range []column.Key{x, y} {
		b.WriteByte('\n')
		b.WriteString(column.Lookup(k).TooltipPrefix)
		b.WriteString(FormatValue(row.Value(k)))
	}
	return b.String()
}

// FormatValue prints v in its shortest round-trip form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Lines splits formatted tooltip text into lines.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}
