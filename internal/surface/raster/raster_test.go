package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/render"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	s := New(100, 100, black)
	s.Clear()
	return s
}

func redAt(s *Surface, x, y int) uint8 {
	return s.Image().RGBAAt(x, y).R
}

func TestClear(t *testing.T) {
	s := New(4, 3, color.NRGBA{R: 5, G: 7, B: 10, A: 255})
	s.Clear()
	if w, h := s.Size(); w != 4 || h != 3 {
		t.Fatalf("size %dx%d", w, h)
	}
	if got := s.Image().RGBAAt(3, 2); got != (color.RGBA{5, 7, 10, 255}) {
		t.Fatalf("pixel %v", got)
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name string
		draw func(s *Surface)
		lit  [][2]int
		dark [][2]int
	}{
		{
			name: "fill rect",
			draw: func(s *Surface) { s.FillRect(geom.Rect{X: 10, Y: 10, W: 20, H: 20}, red) },
			lit:  [][2]int{{15, 15}, {29, 29}},
			dark: [][2]int{{5, 5}, {31, 15}},
		},
		{
			name: "stroke rect",
			draw: func(s *Surface) { s.StrokeRect(geom.Rect{X: 10, Y: 10, W: 40, H: 40}, 2, red) },
			lit:  [][2]int{{30, 9}, {30, 10}, {9, 30}, {50, 30}, {30, 50}},
			dark: [][2]int{{30, 30}, {30, 5}},
		},
		{
			name: "stroke path",
			draw: func(s *Surface) {
				var p render.Path
				p.MoveTo(10, 20)
				p.LineTo(50, 20)
				p.LineTo(50, 60)
				s.StrokePath(&p, 2, red)
			},
			lit:  [][2]int{{30, 19}, {30, 20}, {49, 40}, {50, 40}},
			dark: [][2]int{{30, 25}, {30, 40}},
		},
		{
			name: "retraced path does not cancel",
			draw: func(s *Surface) {
				var p render.Path
				p.MoveTo(10, 10)
				p.LineTo(40, 10)
				p.LineTo(10, 10)
				s.StrokePath(&p, 2, red)
			},
			lit:  [][2]int{{20, 9}, {20, 10}},
			dark: [][2]int{{20, 20}},
		},
		{
			name: "fill circles",
			draw: func(s *Surface) {
				var p render.Path
				p.Circle(50, 50, 5)
				p.Circle(80, 20, 3)
				s.FillPath(&p, red)
			},
			lit:  [][2]int{{50, 50}, {80, 20}},
			dark: [][2]int{{60, 60}, {50, 40}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurface(t)
			tt.draw(s)
			for _, p := range tt.lit {
				if r := redAt(s, p[0], p[1]); r < 250 {
					t.Errorf("pixel %v red=%d want lit", p, r)
				}
			}
			for _, p := range tt.dark {
				if r := redAt(s, p[0], p[1]); r != 0 {
					t.Errorf("pixel %v red=%d want dark", p, r)
				}
			}
		})
	}
}

func TestTranslucentFillBlends(t *testing.T) {
	s := newTestSurface(t)
	s.FillRect(geom.Rect{X: 0, Y: 0, W: 10, H: 10}, color.NRGBA{R: 255, A: 128})
	if r := redAt(s, 5, 5); r < 126 || r > 130 {
		t.Fatalf("half-alpha red over black=%d want ~128", r)
	}
}

func TestShapesClipToImage(t *testing.T) {
	s := newTestSurface(t)
	s.FillRect(geom.Rect{X: -50, Y: -50, W: 60, H: 60}, red)
	s.FillRect(geom.Rect{X: 500, Y: 500, W: 10, H: 10}, red)
	if r := redAt(s, 5, 5); r < 250 {
		t.Fatalf("clipped rect missing, red=%d", r)
	}
}

func TestGlowIsAdditive(t *testing.T) {
	s := newTestSurface(t)
	s.Glow(geom.Point{X: 50, Y: 50}, 5, red)
	centre := redAt(s, 50, 50)
	edge := redAt(s, 53, 50)
	if centre == 0 || edge >= centre {
		t.Fatalf("centre=%d edge=%d want bright centre fading out", centre, edge)
	}
	if r := redAt(s, 56, 50); r != 0 {
		t.Fatalf("glow leaked past its radius: %d", r)
	}

	s.Glow(geom.Point{X: 50, Y: 50}, 5, red)
	if again := redAt(s, 50, 50); again <= centre && centre < 255 {
		t.Fatalf("second glow did not add: %d -> %d", centre, again)
	}
}

func TestTextMarksPixels(t *testing.T) {
	s := newTestSurface(t)
	s.Text("IC-4", 10, 30, 8, red)
	lit := 0
	for y := 20; y < 32; y++ {
		for x := 10; x < 40; x++ {
			if redAt(s, x, y) > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("text drew nothing")
	}
}

func TestEncodePNG(t *testing.T) {
	s := newTestSurface(t)
	s.FillRect(geom.Rect{X: 0, Y: 0, W: 10, H: 10}, red)
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("decoded %v", b)
	}
}

func TestResize(t *testing.T) {
	s := New(10, 10, black)
	img := s.Image()
	s.Resize(10, 10)
	if s.Image() != img {
		t.Fatal("same-size resize reallocated")
	}
	s.Resize(20, 5)
	if w, h := s.Size(); w != 20 || h != 5 {
		t.Fatalf("size %dx%d", w, h)
	}
}

func TestImplementsSurface(t *testing.T) {
	var _ render.Surface = (*Surface)(nil)
}
