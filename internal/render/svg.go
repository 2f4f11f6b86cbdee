package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/cache"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/tooltip"
	"github.com/statehealth/scatter/internal/transition"
	"github.com/statehealth/scatter/pkg/colormap"
)

// keySplines approximates cubic in-out easing.
const keySplines = "0.645 0.045 0.355 1"

const stylesheet = `
text { font-family: sans-serif; }
.state-text { font-size: 10px; text-anchor: middle; fill: white; }
.axis-text { font-size: 14px; cursor: pointer; }
.axis-text.active { font-weight: bold; fill: black; }
.axis-text.inactive { fill: #aaa; }
.tick text { font-size: 10px; fill: #333; }
.tick line, .domain { stroke: #333; }
.d3-tip { font-size: 12px; fill: white; }
.d3-tip rect { fill: black; fill-opacity: 0.8; }
`

// SVGRenderer writes a timeline as a self-playing SVG document. Mark
// segments become SMIL animations; axis rulers cross-fade between
// domains; label and tooltip changes become timed sets.
type SVGRenderer struct {
	style Style
	cache *cache.Manager
}

// NewSVGRenderer creates an SVG renderer. c may be nil to disable caching
// of documents.
func NewSVGRenderer(style Style, c *cache.Manager) *SVGRenderer {
	return &SVGRenderer{style: style, cache: c}
}

// Document renders tl into memory. Documents are cached by timeline
// version, so exporting a chart nobody touched since does not re-render.
func (r *SVGRenderer) Document(tl *transition.Timeline) ([]byte, error) {
	l := r.style.Layout
	key := cache.DocumentKey("svg", strconv.AppendUint(nil, tl.Version(), 10), l.Width, l.Height)
	if r.cache != nil {
		if doc, ok := r.cache.GetDocument(key); ok {
			return doc, nil
		}
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, tl); err != nil {
		return nil, fmt.Errorf("failed to render svg: %w", err)
	}
	doc := buf.Bytes()
	if r.cache != nil {
		r.cache.SetDocument(key, doc)
	}
	return doc, nil
}

// Render writes tl to w.
func (r *SVGRenderer) Render(w io.Writer, tl *transition.Timeline) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	l := r.style.Layout

	canvas.Start(l.Width, l.Height)
	canvas.Style("text/css", stylesheet)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", l.Margin.Left, l.Margin.Top))

	width, height := tl.Size()
	r.axis(canvas, ew, column.X, tl.Domain(column.X), width, height)
	r.axis(canvas, ew, column.Y, tl.Domain(column.Y), width, height)
	r.marks(canvas, ew, tl)
	r.labels(canvas, ew, tl.Labels())
	r.tooltips(canvas, ew, tl.Tooltips())

	canvas.Gend()
	canvas.End()
	return ew.err
}

// epoch is one domain an axis ruler shows, from the moment it starts
// fading in until the next domain replaces it.
type epoch struct {
	Domain scale.Domain
	Start  time.Duration
	Fade   time.Duration
	Next   time.Duration // start of the following epoch, if any
}

func epochs(d transition.DomainTracks) []epoch {
	if d.Min == nil {
		return nil
	}
	mins, maxs := d.Min.Segments(), d.Max.Segments()
	out := []epoch{{Domain: scale.Domain{Min: d.Min.Initial(), Max: d.Max.Initial()}}}
	for i := range mins {
		if i >= len(maxs) {
			break
		}
		out[len(out)-1].Next = mins[i].Start
		out = append(out, epoch{
			Domain: scale.Domain{Min: mins[i].To, Max: maxs[i].To},
			Start:  mins[i].Start,
			Fade:   mins[i].Duration,
		})
	}
	return out
}

func (r *SVGRenderer) axis(canvas *svg.SVG, w io.Writer, a column.Axis, d transition.DomainTracks, width, height float64) {
	length, pos := width, int(height)
	if a == column.Y {
		length, pos = height, 0
	}

	if a == column.X {
		canvas.Line(0, pos, int(width), pos, `class="domain"`)
	} else {
		canvas.Line(0, 0, 0, int(height), `class="domain"`)
	}

	eps := epochs(d)
	for n, ep := range eps {
		id := fmt.Sprintf("%s-axis-%d", strings.ToLower(a.String()), n)
		opacity := "1"
		if n > 0 {
			opacity = "0"
		}
		canvas.Group(`id="`+id+`"`, `opacity="`+opacity+`"`)
		for _, tk := range axisTicks(ep.Domain, a, length, r.style.tickCount()) {
			p := int(math.Round(tk.Pos))
			canvas.Group(`class="tick"`)
			if a == column.X {
				canvas.Line(p, pos, p, pos+6)
				canvas.Text(p, pos+18, formatTick(tk.Value), `text-anchor="middle"`)
			} else {
				canvas.Line(-6, p, 0, p)
				canvas.Text(-9, p+3, formatTick(tk.Value), `text-anchor="end"`)
			}
			canvas.Gend()
		}
		if n > 0 {
			animate(w, id, "opacity", 0, 1, ep.Start, ep.Fade)
		}
		if n+1 < len(eps) {
			animate(w, id, "opacity", 1, 0, ep.Next, eps[n+1].Fade)
		}
		canvas.Gend()
	}
}

func (r *SVGRenderer) marks(canvas *svg.SVG, w io.Writer, tl *transition.Timeline) {
	rad := int(math.Round(r.style.MarkRadius))
	canvas.Group(`class="marks"`)
	for i := 0; i < tl.Len(); i++ {
		m := tl.Mark(i)
		cx, cy := m.X.Initial(), m.Y.Initial()

		circle := fmt.Sprintf("mark-%d", i)
		label := fmt.Sprintf("abbr-%d", i)
		canvas.Circle(int(math.Round(cx)), int(math.Round(cy)), rad,
			`id="`+circle+`"`, "fill:"+colormap.Hex(r.style.MarkColor(i)))
		canvas.Text(int(math.Round(cx)), int(math.Round(cy))+4, m.Label,
			`id="`+label+`"`, `class="state-text"`)

		for _, seg := range m.X.Segments() {
			animate(w, circle, "cx", seg.From, seg.To, seg.Start, seg.Duration)
			animate(w, label, "x", seg.From, seg.To, seg.Start, seg.Duration)
		}
		for _, seg := range m.Y.Segments() {
			animate(w, circle, "cy", seg.From, seg.To, seg.Start, seg.Duration)
			animate(w, label, "y", seg.From+4, seg.To+4, seg.Start, seg.Duration)
		}
	}
	canvas.Gend()
}

func (r *SVGRenderer) labels(canvas *svg.SVG, w io.Writer, events []transition.LabelEvent) {
	if len(events) == 0 {
		return
	}
	l := r.style.Layout
	first := events[0].Flags

	var slot [2]int
	for _, f := range first {
		id := "label-" + f.Column.Field
		x, y := l.labelSlot(f.Column.Axis, slot[f.Column.Axis])
		slot[f.Column.Axis]++

		attrs := []string{`id="` + id + `"`, `class="` + labelClass(f) + `"`, `text-anchor="middle"`}
		if f.Column.Axis == column.Y {
			// rotated: (x, y) swap into (-y, x)
			attrs = append(attrs, `transform="rotate(-90)"`, `dy="1em"`)
			x, y = -y, x
		}
		canvas.Text(int(math.Round(x)), int(math.Round(y)), f.Column.Label, attrs...)
	}

	for _, ev := range events[1:] {
		for _, f := range ev.Flags {
			set(w, "label-"+f.Column.Field, "class", labelClass(f), ev.At)
		}
	}
}

func labelClass(f axis.LabelFlag) string {
	if f.Active {
		return "axis-text active"
	}
	return "axis-text inactive"
}

func (r *SVGRenderer) tooltips(canvas *svg.SVG, w io.Writer, events []transition.TooltipEvent) {
	for n, ev := range events {
		if !ev.Shown {
			continue
		}
		id := fmt.Sprintf("tip-%d", n)
		lines := tooltip.Lines(ev.Text)
		x, y := int(math.Round(ev.Anchor.X)), int(math.Round(ev.Anchor.Y))

		canvas.Group(`id="`+id+`"`, `class="d3-tip"`, `visibility="hidden"`)
		canvas.Rect(x-4, y-14, tooltipWidth(lines), 16*len(lines)+6)
		for i, line := range lines {
			canvas.Text(x, y+16*i, line)
		}
		set(w, id, "visibility", "visible", ev.At)
		if n+1 < len(events) {
			set(w, id, "visibility", "hidden", events[n+1].At)
		}
		canvas.Gend()
	}
}

func tooltipWidth(lines []string) int {
	longest := 0
	for _, l := range lines {
		if len(l) > longest {
			longest = len(l)
		}
	}
	return 7*longest + 8
}

func animate(w io.Writer, id, attr string, from, to float64, begin, dur time.Duration) {
	fmt.Fprintf(w, `<animate xlink:href="#%s" attributeName="%s" from="%s" to="%s" begin="%s" dur="%s" calcMode="spline" keyTimes="0;1" keySplines="%s" fill="freeze" />`+"\n",
		id, attr, formatCoord(from), formatCoord(to), seconds(begin), seconds(dur), keySplines)
}

func set(w io.Writer, id, attr, to string, begin time.Duration) {
	fmt.Fprintf(w, `<set xlink:href="#%s" attributeName="%s" to="%s" begin="%s" fill="freeze" />`+"\n",
		id, attr, to, seconds(begin))
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64) + "s"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
