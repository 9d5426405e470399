// Package render draws a board and its pulses onto a Surface.
//
// Draw order is fixed: chips, traces, vias, pulses. Traces and vias are each
// batched into a single path so a frame costs a handful of draw calls no
// matter how many traces the board has.
package render

import (
	"github.com/iburimskiy/circuit-background/internal/board"
	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/pulse"
)

type Pipeline struct {
	style config.StyleConfig
	pulse config.PulseConfig

	// scratch paths reused across frames
	pins, traces, vias, detail Path
}

func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{style: cfg.Style, pulse: cfg.Pulse}
}

// Frame clears dst and draws the whole scene.
func (pl *Pipeline) Frame(dst Surface, l *board.Layout, pulses []*pulse.Pulse) {
	if dst == nil {
		return
	}
	dst.Clear()
	if l != nil {
		pl.Chips(dst, l.Chips, float64(l.CellSize))
		pl.Traces(dst, l.Traces)
		pl.Vias(dst, l.Traces)
	}
	pl.Pulses(dst, pulses)
}

// Chips draws body, border, pins, decoration and label of every chip. Pins
// sit one per cell of size step.
func (pl *Pipeline) Chips(dst Surface, chips []board.Chip, step float64) {
	st := pl.style
	for _, c := range chips {
		b := c.Bounds
		dst.FillRect(b, st.ChipFill.NRGBA)
		dst.StrokeRect(b, st.ChipBorderWidth, st.ChipBorder.NRGBA)

		pl.pins.Reset()
		addPins(&pl.pins, b, step, st.PinLength)
		dst.StrokePath(&pl.pins, st.PinWidth, st.PinColor.NRGBA)

		d, in := st.DetailSize, st.DetailInset
		dst.FillRect(geom.Rect{X: b.X + in, Y: b.Y + in, W: d, H: d}, st.DetailColor.NRGBA)
		dst.FillRect(geom.Rect{X: b.MaxX() - in - d, Y: b.MaxY() - in - d, W: d, H: d}, st.DetailColor.NRGBA)

		if st.Labels {
			dst.Text(c.Label(), b.X+4, b.Y+10, st.LabelSize, st.LabelColor.NRGBA)
		}
	}
}

// addPins adds an outward tick at every cell centre along each edge of b.
func addPins(p *Path, b geom.Rect, step, length float64) {
	if step <= 0 {
		return
	}
	for x := b.X + step/2; x < b.MaxX(); x += step {
		p.MoveTo(x, b.Y)
		p.LineTo(x, b.Y-length)
		p.MoveTo(x, b.MaxY())
		p.LineTo(x, b.MaxY()+length)
	}
	for y := b.Y + step/2; y < b.MaxY(); y += step {
		p.MoveTo(b.X, y)
		p.LineTo(b.X-length, y)
		p.MoveTo(b.MaxX(), y)
		p.LineTo(b.MaxX()+length, y)
	}
}

// Traces strokes every trace in one pass.
func (pl *Pipeline) Traces(dst Surface, traces []board.Trace) {
	pl.traces.Reset()
	for _, t := range traces {
		if len(t.Points) < 2 {
			continue
		}
		pl.traces.Polyline(t.Points)
	}
	if pl.traces.Empty() {
		return
	}
	dst.StrokePath(&pl.traces, pl.style.TraceWidth, pl.style.TraceColor.NRGBA)
}

// Vias fills a dot at both ends of every trace in one pass.
func (pl *Pipeline) Vias(dst Surface, traces []board.Trace) {
	pl.vias.Reset()
	r := pl.style.ViaRadius
	for _, t := range traces {
		if len(t.Points) < 2 {
			continue
		}
		first, last := t.Points[0], t.Points[len(t.Points)-1]
		pl.vias.Circle(first.X, first.Y, r)
		pl.vias.Circle(last.X, last.Y, r)
	}
	if pl.vias.Empty() {
		return
	}
	dst.FillPath(&pl.vias, pl.style.TraceColor.NRGBA)
}

// Pulses draws each traveling pulse: glow, head, then its fading trail.
// Pulses that arrived or have no resolvable position are skipped.
func (pl *Pipeline) Pulses(dst Surface, pulses []*pulse.Pulse) {
	pc := pl.pulse
	for _, p := range pulses {
		if p.Arrived() {
			continue
		}
		head, ok := p.Head()
		if !ok {
			continue
		}
		c := p.Color()
		if pc.GlowRadius > 0 {
			dst.Glow(head, pc.GlowRadius, c)
		}
		pl.detail.Reset()
		pl.detail.Circle(head.X, head.Y, pc.Radius)
		dst.FillPath(&pl.detail, c)

		for _, dot := range p.Trail(pc.TailLength, pc.TailSpacing, pc.TailAlpha) {
			tc := c
			tc.A = uint8(float64(c.A)*dot.Alpha + 0.5)
			if tc.A == 0 {
				continue
			}
			pl.detail.Reset()
			pl.detail.Circle(dot.Pos.X, dot.Pos.Y, pc.TailRadius)
			dst.FillPath(&pl.detail, tc)
		}
	}
}
