package pulse

import "github.com/iburimskiy/circuit-background/internal/geom"

// Segment is one edge of a trace polyline.
type Segment struct {
	Length     float64
	Start, End geom.Point
	Delta      geom.Point
}

// Table is the precomputed segment list of a trace.
type Table struct {
	Segments []Segment
	Total    float64
}

// NewTable builds the segment table for pts. Fewer than two points give an
// empty table.
func NewTable(pts []geom.Point) Table {
	var t Table
	if len(pts) < 2 {
		return t
	}
	t.Segments = make([]Segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		d := pts[i+1].Sub(pts[i])
		l := d.Len()
		t.Segments = append(t.Segments, Segment{Length: l, Start: pts[i], End: pts[i+1], Delta: d})
		t.Total += l
	}
	return t
}

// PositionAt resolves a distance along the table into a point. Distances
// outside [0, Total] and empty tables report false.
func (t Table) PositionAt(d float64) (geom.Point, bool) {
	if len(t.Segments) == 0 || d < 0 || d > t.Total {
		return geom.Point{}, false
	}
	acc := 0.0
	for i, seg := range t.Segments {
		if d >= acc && d <= acc+seg.Length {
			if seg.Length == 0 {
				return seg.Start, true
			}
			if i == len(t.Segments)-1 && d == t.Total {
				return seg.End, true
			}
			tt := (d - acc) / seg.Length
			return seg.Start.Add(seg.Delta.Scale(tt)), true
		}
		acc += seg.Length
	}
	// Accumulated float error can leave d a hair past the last segment.
	last := t.Segments[len(t.Segments)-1]
	return last.End, true
}
