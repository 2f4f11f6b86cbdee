package transition

import (
	"time"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/scale"
)

// Config contains orchestrator configuration.
type Config struct {
	Dataset  *data.Dataset
	Mapper   *scale.Mapper
	Surface  Surface
	Width    float64
	Height   float64
	Duration time.Duration
}

// Orchestrator rescales an axis and animates the surface toward it.
type Orchestrator struct {
	ds       *data.Dataset
	mapper   *scale.Mapper
	surface  Surface
	width    float64
	height   float64
	duration time.Duration
}

// NewOrchestrator creates an orchestrator. A zero duration selects
// DefaultDuration.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	return &Orchestrator{
		ds:       cfg.Dataset,
		mapper:   cfg.Mapper,
		surface:  cfg.Surface,
		width:    cfg.Width,
		height:   cfg.Height,
		duration: cfg.Duration,
	}
}

// Duration returns the animation length.
func (o *Orchestrator) Duration() time.Duration {
	return o.duration
}

// Start computes both domains for s and draws the initial scene.
func (o *Orchestrator) Start(s axis.State) {
	o.mapper.UpdateDomain(column.X, scale.ComputeDomain(o.ds, s.X, column.X))
	o.mapper.UpdateDomain(column.Y, scale.ComputeDomain(o.ds, s.Y, column.Y))

	sc := Scene{
		Width:   o.width,
		Height:  o.height,
		Marks:   make([]Mark, o.ds.Len()),
		XDomain: o.mapper.Domain(column.X),
		YDomain: o.mapper.Domain(column.Y),
		Labels:  s.Labels(),
	}
	for i := 0; i < o.ds.Len(); i++ {
		row := o.ds.Row(i)
		p := o.mapper.MapPoint(row, s)
		sc.Marks[i] = Mark{Label: row.Abbreviation, X: p.X, Y: p.Y}
	}
	o.surface.Setup(sc)
}

// OnColumnSwitch rescales sw.Axis for the new column and animates the axis
// ruler and every mark. s is the state after the switch. Animations are
// issued without waiting for any of them.
func (o *Orchestrator) OnColumnSwitch(s axis.State, sw axis.Switch) {
	from := o.mapper.Domain(sw.Axis)
	to := scale.ComputeDomain(o.ds, sw.To, sw.Axis)
	o.mapper.UpdateDomain(sw.Axis, to)

	o.surface.AnimateAxis(AxisTask{
		Axis:     sw.Axis,
		From:     from,
		To:       to,
		Duration: o.duration,
	})

	attr := AttrFor(sw.Axis)
	for i := 0; i < o.ds.Len(); i++ {
		p := o.mapper.MapPoint(o.ds.Row(i), s)
		target := p.X
		if attr == CY {
			target = p.Y
		}
		o.surface.AnimateMark(MarkTask{
			Index:    i,
			Attr:     attr,
			To:       target,
			Duration: o.duration,
		})
	}

	o.surface.SetLabels(s.Labels())
}
