package render

import (
	"image/color"

	"github.com/iburimskiy/circuit-background/internal/geom"
)

// Surface is the 2D drawing target. Coordinates are pixels with the origin at
// the top-left corner. Colours are straight alpha.
type Surface interface {
	Size() (w, h int)
	Clear()
	FillRect(r geom.Rect, c color.Color)
	StrokeRect(r geom.Rect, width float64, c color.Color)
	// StrokePath strokes every line sub-path of p with round caps and joins.
	StrokePath(p *Path, width float64, c color.Color)
	// FillPath fills every circle and closed sub-path of p.
	FillPath(p *Path, c color.Color)
	// Glow draws a soft halo of the given radius, brightest at the centre.
	Glow(center geom.Point, radius float64, c color.Color)
	// Text draws s with its baseline starting at (x, y).
	Text(s string, x, y, size float64, c color.Color)
}

type OpKind int

const (
	OpMoveTo OpKind = iota
	OpLineTo
	OpCircle
)

// Op is one path command. R is only used by OpCircle.
type Op struct {
	Kind OpKind
	X, Y float64
	R    float64
}

// Path batches many sub-paths so a surface can issue them as one draw call.
type Path struct {
	Ops []Op
}

func (p *Path) Reset() { p.Ops = p.Ops[:0] }

func (p *Path) MoveTo(x, y float64) { p.Ops = append(p.Ops, Op{Kind: OpMoveTo, X: x, Y: y}) }
func (p *Path) LineTo(x, y float64) { p.Ops = append(p.Ops, Op{Kind: OpLineTo, X: x, Y: y}) }

// Circle adds a closed circle sub-path.
func (p *Path) Circle(x, y, r float64) { p.Ops = append(p.Ops, Op{Kind: OpCircle, X: x, Y: y, R: r}) }

// Polyline adds pts as one open sub-path.
func (p *Path) Polyline(pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
}

func (p *Path) Empty() bool { return len(p.Ops) == 0 }

// Lines returns the open sub-paths as point lists.
func (p *Path) Lines() [][]geom.Point {
	var out [][]geom.Point
	var cur []geom.Point
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, op := range p.Ops {
		switch op.Kind {
		case OpMoveTo:
			flush()
			cur = []geom.Point{{X: op.X, Y: op.Y}}
		case OpLineTo:
			if cur == nil {
				cur = []geom.Point{{X: op.X, Y: op.Y}}
				continue
			}
			cur = append(cur, geom.Point{X: op.X, Y: op.Y})
		case OpCircle:
			flush()
		}
	}
	flush()
	return out
}

// Circles returns the circle ops of p.
func (p *Path) Circles() []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == OpCircle {
			out = append(out, op)
		}
	}
	return out
}

// NRGBA converts c to straight alpha, avoiding a round trip when it already is.
func NRGBA(c color.Color) color.NRGBA {
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
