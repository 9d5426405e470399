// Package termsurf implements render.Surface on a tcell screen.
//
// Every terminal cell stands for CellW×CellH pixels and is drawn as an upper
// half block, so the screen resolves two square dots per cell: the top dot is
// the foreground, the bottom dot the background. Shapes are sampled at dot
// centres; strokes thinner than a dot still mark every dot they cross.
package termsurf

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/render"
)

const (
	CellW = 8
	CellH = 16
	dot   = CellH / 2
)

const upperHalf = '▀'

type label struct {
	r  rune
	fg colorful.Color
	a  float64
}

type Surface struct {
	screen tcell.Screen
	bg     colorful.Color

	cols, rows int
	// dots holds cols × rows*2 composited colours, row-major
	dots []colorful.Color
	// stamp dedupes dots within one draw call
	stamp []uint32
	gen   uint32

	labels map[int]label
}

// New wraps screen. Call Sync after the terminal is resized.
func New(screen tcell.Screen, bg color.Color) *Surface {
	s := &Surface{screen: screen, bg: toColorful(bg), labels: map[int]label{}}
	s.Sync()
	return s
}

// Sync picks up the current terminal size. It reports whether it changed.
func (s *Surface) Sync() bool {
	cols, rows := s.screen.Size()
	if cols == s.cols && rows == s.rows && s.dots != nil {
		return false
	}
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	n := s.cols * s.rows * 2
	s.dots = make([]colorful.Color, n)
	s.stamp = make([]uint32, n)
	s.Clear()
	return true
}

// Size is the virtual pixel size the terminal stands for.
func (s *Surface) Size() (int, int) { return s.cols * CellW, s.rows * CellH }

func (s *Surface) Clear() {
	for i := range s.dots {
		s.dots[i] = s.bg
	}
	clear(s.labels)
}

// Show copies the dot buffer to the screen and flushes it.
func (s *Surface) Show() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.dots[(2*row)*s.cols+col]
			bottom := s.dots[(2*row+1)*s.cols+col]
			st := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			if l, ok := s.labels[row*s.cols+col]; ok {
				fg := top.BlendRgb(l.fg, l.a)
				st = tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(top))
				s.screen.SetContent(col, row, l.r, nil, st)
				continue
			}
			s.screen.SetContent(col, row, upperHalf, nil, st)
		}
	}
	s.screen.Show()
}

func (s *Surface) FillRect(r geom.Rect, c color.Color) {
	s.begin()
	s.forDots(r, func(i int, x, y float64) {
		if x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY() {
			s.mark(i)
		}
	})
	s.blend(c)
}

func (s *Surface) StrokeRect(r geom.Rect, width float64, c color.Color) {
	s.begin()
	tl, tr := geom.Point{X: r.X, Y: r.Y}, geom.Point{X: r.MaxX(), Y: r.Y}
	bl, br := geom.Point{X: r.X, Y: r.MaxY()}, geom.Point{X: r.MaxX(), Y: r.MaxY()}
	s.line(tl, tr)
	s.line(tr, br)
	s.line(br, bl)
	s.line(bl, tl)
	s.blend(c)
}

func (s *Surface) StrokePath(p *render.Path, width float64, c color.Color) {
	s.begin()
	for _, line := range p.Lines() {
		for i := 1; i < len(line); i++ {
			s.line(line[i-1], line[i])
		}
	}
	s.blend(c)
}

func (s *Surface) FillPath(p *render.Path, c color.Color) {
	s.begin()
	for _, op := range p.Circles() {
		s.disc(geom.Point{X: op.X, Y: op.Y}, op.R)
	}
	s.blend(c)
}

// Glow brightens dots within radius, strongest at the centre.
func (s *Surface) Glow(center geom.Point, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	src := toColorful(c)
	a := alpha(c)
	box := geom.Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}
	s.forDots(box, func(i int, x, y float64) {
		d := math.Hypot(x-center.X, y-center.Y) / radius
		if d >= 1 {
			return
		}
		k := (1 - d) * (1 - d) * a
		cur := s.dots[i]
		s.dots[i] = colorful.Color{R: cur.R + src.R*k, G: cur.G + src.G*k, B: cur.B + src.B*k}.Clamped()
	})
}

// Text places one rune per cell starting at the cell that holds (x, y).
// Labels smaller than a cell still take a whole cell per rune.
func (s *Surface) Text(str string, x, y, size float64, c color.Color) {
	col := int(math.Floor(x / CellW))
	row := int(math.Floor((y - 1) / CellH))
	if row < 0 || row >= s.rows {
		return
	}
	fg, a := toColorful(c), alpha(c)
	for _, r := range str {
		if col >= 0 && col < s.cols {
			s.labels[row*s.cols+col] = label{r: r, fg: fg, a: a}
		}
		col++
	}
}

// Dot returns the composited colour of the dot covering pixel (x, y).
func (s *Surface) Dot(x, y float64) colorful.Color {
	col, drow := int(x/CellW), int(y/dot)
	if col < 0 || col >= s.cols || drow < 0 || drow >= s.rows*2 {
		return s.bg
	}
	return s.dots[drow*s.cols+col]
}

func (s *Surface) begin() {
	s.gen++
	if s.gen == 0 {
		clear(s.stamp)
		s.gen = 1
	}
}

func (s *Surface) mark(i int) { s.stamp[i] = s.gen }

// blend composites c over every dot marked since begin.
func (s *Surface) blend(c color.Color) {
	src, a := toColorful(c), alpha(c)
	if a <= 0 {
		return
	}
	for i, g := range s.stamp {
		if g == s.gen {
			s.dots[i] = s.dots[i].BlendRgb(src, a)
		}
	}
}

// forDots visits the dots whose cell rectangle overlaps r, passing the dot
// index and its centre in pixels.
func (s *Surface) forDots(r geom.Rect, fn func(i int, x, y float64)) {
	c0 := max(int(math.Floor(r.X/CellW)), 0)
	c1 := min(int(math.Ceil(r.MaxX()/CellW)), s.cols)
	d0 := max(int(math.Floor(r.Y/dot)), 0)
	d1 := min(int(math.Ceil(r.MaxY()/dot)), s.rows*2)
	for d := d0; d < d1; d++ {
		for c := c0; c < c1; c++ {
			fn(d*s.cols+c, (float64(c)+0.5)*CellW, (float64(d)+0.5)*dot)
		}
	}
}

func (s *Surface) index(p geom.Point) (int, bool) {
	c, d := int(math.Floor(p.X/CellW)), int(math.Floor(p.Y/dot))
	if c < 0 || c >= s.cols || d < 0 || d >= s.rows*2 {
		return 0, false
	}
	return d*s.cols + c, true
}

// line marks every dot the segment a-b passes through.
func (s *Surface) line(a, b geom.Point) {
	n := int(math.Ceil(b.Sub(a).Len()/2)) + 1
	for k := 0; k <= n; k++ {
		q := a.Add(b.Sub(a).Scale(float64(k) / float64(n)))
		if i, ok := s.index(q); ok {
			s.mark(i)
		}
	}
}

// disc marks dots whose centre lies inside the circle, or the dot under the
// centre when the circle is smaller than a dot.
func (s *Surface) disc(center geom.Point, r float64) {
	if i, ok := s.index(center); ok {
		s.mark(i)
	}
	box := geom.Rect{X: center.X - r, Y: center.Y - r, W: 2 * r, H: 2 * r}
	s.forDots(box, func(i int, x, y float64) {
		if math.Hypot(x-center.X, y-center.Y) <= r {
			s.mark(i)
		}
	})
}

func toColorful(c color.Color) colorful.Color {
	n := render.NRGBA(c)
	return colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
}

func alpha(c color.Color) float64 {
	return float64(render.NRGBA(c).A) / 255
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
