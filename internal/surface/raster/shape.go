package raster

import (
	"image"
	"math"

	"github.com/iburimskiy/circuit-background/internal/geom"
)

// shape collects closed polygons before they are rasterized together.
// Every primitive is wound the same way so overlaps accumulate instead of
// cancelling.
type shape struct {
	polys [][][2]float32
	// pool keeps vertex slices across resets
	pool [][][2]float32
}

func (s *shape) reset() {
	for _, p := range s.polys {
		s.pool = append(s.pool, p[:0])
	}
	s.polys = s.polys[:0]
}

func (s *shape) next() [][2]float32 {
	if n := len(s.pool); n > 0 {
		p := s.pool[n-1]
		s.pool = s.pool[:n-1]
		return p
	}
	return make([][2]float32, 0, circleSegments)
}

func (s *shape) add(p [][2]float32) {
	if len(p) >= 3 {
		s.polys = append(s.polys, p)
	}
}

func (s *shape) rect(x0, y0, x1, y1 float64) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	p := s.next()
	p = append(p,
		[2]float32{float32(x0), float32(y0)},
		[2]float32{float32(x1), float32(y0)},
		[2]float32{float32(x1), float32(y1)},
		[2]float32{float32(x0), float32(y1)},
	)
	s.add(p)
}

func (s *shape) circle(cx, cy, r float64) {
	if r <= 0 {
		return
	}
	p := s.next()
	for i := 0; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		p = append(p, [2]float32{float32(cx + r*math.Cos(a)), float32(cy + r*math.Sin(a))})
	}
	s.add(p)
}

// segment adds the quad covering a straight stroke of half-width hw.
func (s *shape) segment(a, b geom.Point, hw float64) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 || hw <= 0 {
		return
	}
	n := geom.Point{X: -d.Y, Y: d.X}.Scale(hw / l)
	p := s.next()
	for _, q := range []geom.Point{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)} {
		p = append(p, [2]float32{float32(q.X), float32(q.Y)})
	}
	s.add(p)
}

func (s *shape) polygon(pts []geom.Point) {
	p := s.next()
	for _, q := range pts {
		p = append(p, [2]float32{float32(q.X), float32(q.Y)})
	}
	s.add(p)
}

// bounds is the pixel rectangle covering every polygon.
func (s *shape) bounds() image.Rectangle {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, p := range s.polys {
		for _, v := range p {
			minX, maxX = min(minX, v[0]), max(maxX, v[0])
			minY, maxY = min(minY, v[1]), max(maxY, v[1])
		}
	}
	return image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
}
