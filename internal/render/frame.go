package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/cache"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/scale"
	"github.com/statehealth/scatter/internal/tooltip"
	"github.com/statehealth/scatter/internal/transition"
)

var (
	axisColor     = color.RGBA{51, 51, 51, 255}
	inactiveColor = color.RGBA{170, 170, 170, 255}
	tipColor      = color.RGBA{0, 0, 0, 204}
)

// canvas is a pooled drawing context with its own font faces; faces are
// not safe for concurrent use.
type canvas struct {
	dc    *gg.Context
	small font.Face
	large font.Face
}

// FrameRenderer rasterizes timeline frames using fogleman/gg.
type FrameRenderer struct {
	style      Style
	cache      *cache.Manager
	canvasPool sync.Pool
	bufferPool sync.Pool
}

// NewFrameRenderer creates a frame renderer. c may be nil to disable
// caching of settled frames.
func NewFrameRenderer(style Style, c *cache.Manager) (*FrameRenderer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	newFace := func(size float64) font.Face {
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			panic(err) // embedded font
		}
		return face
	}
	l := style.Layout
	r := &FrameRenderer{
		style: style,
		cache: c,
		canvasPool: sync.Pool{
			New: func() interface{} {
				return &canvas{
					dc:    gg.NewContext(l.Width, l.Height),
					small: newFace(10),
					large: newFace(14),
				}
			},
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 64*1024))
			},
		},
	}
	return r, nil
}

// Render draws f and encodes it as PNG.
func (r *FrameRenderer) Render(f transition.Frame) ([]byte, error) {
	cv := r.canvasPool.Get().(*canvas)
	defer r.canvasPool.Put(cv)

	r.draw(cv, f)
	return r.encodePNG(cv.dc.Image())
}

// RenderAt renders tl at t. While nothing moves, a frame is fully
// described by its axis state and tooltip, so such frames are cached and
// every repeat of one (a pause between clicks, the chart at rest) is
// served from the cache.
func (r *FrameRenderer) RenderAt(tl *transition.Timeline, t time.Duration) ([]byte, error) {
	f := tl.Frame(t)
	if r.cache == nil || !tl.Settled(t) {
		return r.Render(f)
	}
	s, ok := axis.FromLabels(f.Labels)
	if !ok {
		return r.Render(f)
	}

	key := cache.FrameKey(s, r.style.Layout.Width, r.style.Layout.Height, tipKey(f.Tooltip))
	if data, ok := r.cache.GetFrame(key); ok {
		return data, nil
	}

	data, err := r.Render(f)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetFrame(key, data); err != nil {
		return nil, fmt.Errorf("failed to cache frame: %w", err)
	}
	return data, nil
}

// tipKey identifies a visible tooltip. A tooltip opened mid-animation
// stays where it was opened, so the anchor is part of it.
func tipKey(tip *transition.TooltipEvent) string {
	if tip == nil {
		return ""
	}
	return fmt.Sprintf("%s@%.2f,%.2f", tip.Text, tip.Anchor.X, tip.Anchor.Y)
}

// MaxFrameRate bounds the sampling rate of Times.
const MaxFrameRate = 100

// Times samples tl from zero until it settles at fps frames per second.
// The last time is always the end of the timeline.
func Times(tl *transition.Timeline, fps int) []time.Duration {
	if fps <= 0 {
		fps = 30
	}
	if fps > MaxFrameRate {
		fps = MaxFrameRate
	}
	step := time.Second / time.Duration(fps)
	end := tl.End()

	var times []time.Duration
	for t := time.Duration(0); t < end; t += step {
		times = append(times, t)
	}
	return append(times, end)
}

// Sequence returns the frames of tl at Times.
func Sequence(tl *transition.Timeline, fps int) []transition.Frame {
	times := Times(tl, fps)
	frames := make([]transition.Frame, len(times))
	for i, t := range times {
		frames[i] = tl.Frame(t)
	}
	return frames
}

// EncodeGIF writes frames as an animated GIF played at fps.
func (r *FrameRenderer) EncodeGIF(w io.Writer, frames []transition.Frame, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}

	cv := r.canvasPool.Get().(*canvas)
	defer r.canvasPool.Put(cv)

	anim := &gif.GIF{}
	for _, f := range frames {
		r.draw(cv, f)
		src := cv.dc.Image()
		pal := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, pal.Bounds(), src, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

func (r *FrameRenderer) encodePNG(img image.Image) ([]byte, error) {
	buf := r.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		r.bufferPool.Put(buf)
	}()

	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(buf, img); err != nil {
		return nil, err
	}

	// the buffer is reused
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

func (r *FrameRenderer) draw(cv *canvas, f transition.Frame) {
	dc := cv.dc
	l := r.style.Layout

	dc.SetColor(color.White)
	dc.Clear()

	dc.Push()
	defer dc.Pop()
	dc.Translate(float64(l.Margin.Left), float64(l.Margin.Top))

	dc.SetFontFace(cv.small)
	r.drawAxis(dc, column.X, f.XDomain, f.Width, f.Height)
	r.drawAxis(dc, column.Y, f.YDomain, f.Width, f.Height)

	for i, m := range f.Marks {
		dc.DrawCircle(m.X, m.Y, r.style.MarkRadius)
		dc.SetColor(r.style.MarkColor(i))
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawStringAnchored(m.Label, m.X, m.Y, 0.5, 0.35)
	}

	dc.SetFontFace(cv.large)
	r.drawLabels(dc, f.Labels)

	if f.Tooltip != nil {
		dc.SetFontFace(cv.small)
		drawTooltip(dc, f.Tooltip)
	}
}

func (r *FrameRenderer) drawAxis(dc *gg.Context, a column.Axis, d scale.Domain, width, height float64) {
	dc.SetColor(axisColor)
	dc.SetLineWidth(1)

	if a == column.X {
		dc.DrawLine(0, height, width, height)
		dc.Stroke()
		for _, tk := range axisTicks(d, a, width, r.style.tickCount()) {
			dc.DrawLine(tk.Pos, height, tk.Pos, height+6)
			dc.Stroke()
			dc.DrawStringAnchored(formatTick(tk.Value), tk.Pos, height+9, 0.5, 1)
		}
		return
	}

	dc.DrawLine(0, 0, 0, height)
	dc.Stroke()
	for _, tk := range axisTicks(d, a, height, r.style.tickCount()) {
		dc.DrawLine(-6, tk.Pos, 0, tk.Pos)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(tk.Value), -9, tk.Pos, 1, 0.35)
	}
}

func (r *FrameRenderer) drawLabels(dc *gg.Context, flags []axis.LabelFlag) {
	var slot [2]int
	for _, f := range flags {
		x, y := r.style.Layout.labelSlot(f.Column.Axis, slot[f.Column.Axis])
		slot[f.Column.Axis]++

		if f.Active {
			dc.SetColor(color.Black)
		} else {
			dc.SetColor(inactiveColor)
		}
		if f.Column.Axis == column.X {
			dc.DrawStringAnchored(f.Column.Label, x, y, 0.5, 1)
			continue
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(f.Column.Label, x, y, 0.5, 1)
		dc.Pop()
	}
}

func drawTooltip(dc *gg.Context, tip *transition.TooltipEvent) {
	lines := tooltip.Lines(tip.Text)
	lineHeight := dc.FontHeight() * 1.4

	var w float64
	for _, line := range lines {
		if lw, _ := dc.MeasureString(line); lw > w {
			w = lw
		}
	}

	x, y := tip.Anchor.X, tip.Anchor.Y
	dc.SetColor(tipColor)
	dc.DrawRoundedRectangle(x-6, y-6, w+12, lineHeight*float64(len(lines))+8, 2)
	dc.Fill()

	dc.SetColor(color.White)
	for i, line := range lines {
		dc.DrawStringAnchored(line, x, y+lineHeight*float64(i), 0, 1)
	}
}
