// Package raster implements render.Surface on an in-memory *image.RGBA using
// the anti-aliasing rasterizer from golang.org/x/image/vector. It backs the
// headless snapshot and record commands.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/render"
)

// circleSegments is the polygon resolution used for circles and round caps.
const circleSegments = 24

type Surface struct {
	img *image.RGBA
	bg  color.NRGBA

	ras   *vector.Rasterizer
	shape shape

	font  *opentype.Font
	faces map[float64]font.Face
}

// New returns a w×h surface that clears to bg.
func New(w, h int, bg color.Color) *Surface {
	s := &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		bg:    render.NRGBA(bg),
		ras:   vector.NewRasterizer(0, 0),
		faces: map[float64]font.Face{},
	}
	if f, err := opentype.Parse(gomono.TTF); err == nil {
		s.font = f
	}
	return s
}

// Image returns the backing image. It is reused across frames.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image if the size changed.
func (s *Surface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.bg), image.Point{}, draw.Src)
}

func (s *Surface) FillRect(r geom.Rect, c color.Color) {
	s.shape.reset()
	s.shape.rect(r.X, r.Y, r.MaxX(), r.MaxY())
	s.fill(c)
}

func (s *Surface) StrokeRect(r geom.Rect, width float64, c color.Color) {
	s.shape.reset()
	hw := width / 2
	x0, y0, x1, y1 := r.X, r.Y, r.MaxX(), r.MaxY()
	// four bands centred on the edges, overlapping at the corners
	s.shape.rect(x0-hw, y0-hw, x1+hw, y0+hw)
	s.shape.rect(x0-hw, y1-hw, x1+hw, y1+hw)
	s.shape.rect(x0-hw, y0-hw, x0+hw, y1+hw)
	s.shape.rect(x1-hw, y0-hw, x1+hw, y1+hw)
	s.fill(c)
}

func (s *Surface) StrokePath(p *render.Path, width float64, c color.Color) {
	s.shape.reset()
	hw := width / 2
	for _, line := range p.Lines() {
		for i := 1; i < len(line); i++ {
			s.shape.segment(line[i-1], line[i], hw)
		}
		for _, q := range line {
			s.shape.circle(q.X, q.Y, hw)
		}
	}
	s.fill(c)
}

func (s *Surface) FillPath(p *render.Path, c color.Color) {
	s.shape.reset()
	for _, op := range p.Circles() {
		s.shape.circle(op.X, op.Y, op.R)
	}
	for _, line := range p.Lines() {
		s.shape.polygon(line)
	}
	s.fill(c)
}

// Glow adds a quadratic radial falloff onto the image, brightening what is
// already there.
func (s *Surface) Glow(center geom.Point, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	n := render.NRGBA(c)
	box := image.Rect(
		int(math.Floor(center.X-radius)), int(math.Floor(center.Y-radius)),
		int(math.Ceil(center.X+radius)), int(math.Ceil(center.Y+radius)),
	).Intersect(s.img.Bounds())

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-center.X, float64(y)+0.5-center.Y) / radius
			if d >= 1 {
				continue
			}
			k := (1 - d) * (1 - d) * float64(n.A) / 255
			i := s.img.PixOffset(x, y)
			px := s.img.Pix[i : i+4 : i+4]
			px[0] = addClamp(px[0], float64(n.R)*k)
			px[1] = addClamp(px[1], float64(n.G)*k)
			px[2] = addClamp(px[2], float64(n.B)*k)
			px[3] = addClamp(px[3], 255*k)
		}
	}
}

func addClamp(v uint8, d float64) uint8 {
	return uint8(math.Min(255, float64(v)+d+0.5))
}

func (s *Surface) Text(str string, x, y, size float64, c color.Color) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face(size),
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(str)
}

// face returns a cached gomono face of the given size, or the fixed 7x13
// bitmap face when the embedded font could not be parsed.
func (s *Surface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	var face font.Face = basicfont.Face7x13
	if s.font != nil {
		if f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			face = f
		}
	}
	s.faces[size] = face
	return face
}

// fill rasterizes the accumulated shape over its bounding box only.
func (s *Surface) fill(c color.Color) {
	if len(s.shape.polys) == 0 {
		return
	}
	box := s.shape.bounds().Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)

	s.ras.Reset(box.Dx(), box.Dy())
	s.ras.DrawOp = draw.Over
	for _, poly := range s.shape.polys {
		s.ras.MoveTo(poly[0][0]-ox, poly[0][1]-oy)
		for _, v := range poly[1:] {
			s.ras.LineTo(v[0]-ox, v[1]-oy)
		}
		s.ras.ClosePath()
	}
	s.ras.Draw(s.img, box, image.NewUniform(c), image.Point{})
}

// EncodePNG writes the current image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
