// Package ebitensurf implements render.Surface on an *ebiten.Image.
package ebitensurf

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/render"
)

const (
	glowTextureSize = 64
	// maxBatchVertices is the uint16 index space a single DrawTriangles call
	// can address.
	maxBatchVertices = 1 << 16
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	// whiteSubImage avoids sampling the texture edge when drawing triangles
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type Surface struct {
	dst *ebiten.Image
	bg  color.Color

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16

	glow  *ebiten.Image
	fonts *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

// New returns a surface with no target. Set one with Target before drawing.
func New(bg color.Color) *Surface {
	s := &Surface{
		bg:    bg,
		glow:  newGlowTexture(glowTextureSize),
		faces: map[float64]*text.GoTextFace{},
	}
	if src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err == nil {
		s.fonts = src
	}
	return s
}

// Target points the surface at dst for the frame being drawn.
func (s *Surface) Target(dst *ebiten.Image) { s.dst = dst }

func (s *Surface) Size() (int, int) {
	if s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear() {
	if s.dst != nil {
		s.dst.Fill(s.bg)
	}
}

func (s *Surface) FillRect(r geom.Rect, c color.Color) {
	if s.dst == nil {
		return
	}
	vector.DrawFilledRect(s.dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, true)
}

func (s *Surface) StrokeRect(r geom.Rect, width float64, c color.Color) {
	if s.dst == nil {
		return
	}
	vector.StrokeRect(s.dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), c, true)
}

func (s *Surface) StrokePath(p *render.Path, width float64, c color.Color) {
	if s.dst == nil {
		return
	}
	op := &vector.StrokeOptions{
		Width:    float32(width),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	s.vertices, s.indices = s.vertices[:0], s.indices[:0]
	for _, line := range p.Lines() {
		s.addLine(line, false)
		s.appendPath(op, c)
	}
	s.drawTriangles(c)
}

func (s *Surface) FillPath(p *render.Path, c color.Color) {
	if s.dst == nil {
		return
	}
	s.vertices, s.indices = s.vertices[:0], s.indices[:0]
	for _, op := range p.Circles() {
		x, y, r := float32(op.X), float32(op.Y), float32(op.R)
		s.path.MoveTo(x+r, y)
		s.path.Arc(x, y, r, 0, 2*math.Pi, vector.Clockwise)
		s.path.Close()
		s.appendPath(nil, c)
	}
	for _, line := range p.Lines() {
		s.addLine(line, true)
		s.appendPath(nil, c)
	}
	s.drawTriangles(c)
}

// appendPath moves the pending sub-path into the triangle batch, stroked with
// op or filled when op is nil. The batch is drawn first when the sub-path
// would not fit in the uint16 index space.
func (s *Surface) appendPath(op *vector.StrokeOptions, c color.Color) {
	nv, ni := len(s.vertices), len(s.indices)
	s.vertices, s.indices = s.tessellate(s.vertices, s.indices, op)
	if nv > 0 && (len(s.vertices) > maxBatchVertices || len(s.indices) > ebiten.MaxIndicesCount) {
		s.vertices, s.indices = s.vertices[:nv], s.indices[:ni]
		s.drawTriangles(c)
		s.vertices, s.indices = s.tessellate(s.vertices[:0], s.indices[:0], op)
	}
	s.path = vector.Path{}
}

func (s *Surface) tessellate(vs []ebiten.Vertex, is []uint16, op *vector.StrokeOptions) ([]ebiten.Vertex, []uint16) {
	if op == nil {
		return s.path.AppendVerticesAndIndicesForFilling(vs, is)
	}
	return s.path.AppendVerticesAndIndicesForStroke(vs, is, op)
}

// Glow draws the pre-baked radial texture additively, scaled to radius.
func (s *Surface) Glow(center geom.Point, radius float64, c color.Color) {
	if s.dst == nil || radius <= 0 {
		return
	}
	half := float64(glowTextureSize) / 2
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	op.GeoM.Translate(-half, -half)
	op.GeoM.Scale(radius/half, radius/half)
	op.GeoM.Translate(center.X, center.Y)
	op.ColorScale.ScaleWithColor(c)
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(s.glow, op)
}

// Text draws str with its baseline at y.
func (s *Surface) Text(str string, x, y, size float64, c color.Color) {
	if s.dst == nil || s.fonts == nil {
		return
	}
	face := s.face(size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.dst, str, face, op)
}

func (s *Surface) face(size float64) *text.GoTextFace {
	f, ok := s.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: s.fonts, Size: size}
		s.faces[size] = f
	}
	return f
}

func (s *Surface) addLine(line []geom.Point, closed bool) {
	s.path.MoveTo(float32(line[0].X), float32(line[0].Y))
	for _, q := range line[1:] {
		s.path.LineTo(float32(q.X), float32(q.Y))
	}
	if closed {
		s.path.Close()
	}
}

func (s *Surface) drawTriangles(c color.Color) {
	if len(s.indices) == 0 {
		return
	}
	n := render.NRGBA(c)
	r, g, b, a := float32(n.R)/0xff, float32(n.G)/0xff, float32(n.B)/0xff, float32(n.A)/0xff
	for i := range s.vertices {
		v := &s.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// newGlowTexture bakes a white disc whose alpha falls off quadratically from
// the centre.
func newGlowTexture(size int) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	pixels := make([]byte, size*size*4)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half) / half
			if d >= 1 {
				continue
			}
			// premultiplied: colour channels equal alpha for white
			v := uint8((1 - d) * (1 - d) * 255)
			i := (y*size + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = v, v, v, v
		}
	}
	img.WritePixels(pixels)
	return img
}
