package board

import (
	"strconv"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/rng"
)

// Params tunes layout density and shape. The area divisors are visual density
// constants: one chip attempt per ChipArea px² and one trace attempt per
// TraceArea px².
type Params struct {
	CellSize       int
	ChipArea       float64
	TraceArea      float64
	ChipMinCells   int
	ChipMaxCells   int
	TraceMinSteps  int
	TraceMaxSteps  int
	TurnChance     float64
	MinTracePoints int
}

func DefaultParams() Params {
	return Params{
		CellSize:       30,
		ChipArea:       60000,
		TraceArea:      1500,
		ChipMinCells:   2,
		ChipMaxCells:   3,
		TraceMinSteps:  10,
		TraceMaxSteps:  49,
		TurnChance:     0.2,
		MinTracePoints: 3,
	}
}

// Cell addresses one grid cell.
type Cell struct {
	Col, Row int
}

// Chip is a placed component. Bounds is in pixels; the cell fields give the
// footprint without its margin.
type Chip struct {
	Bounds         geom.Rect
	Col, Row, W, H int
}

// Label is the silkscreen text printed on the chip.
func (c Chip) Label() string {
	return "IC-" + strconv.Itoa(int(c.Bounds.X)/10)
}

// Trace is a routed wire: the claimed cells in walk order and their pixel
// centres.
type Trace struct {
	Cells  []Cell
	Points []geom.Point
}

// Layout is one generated board. It stays immutable until the next resize.
type Layout struct {
	Width, Height int
	CellSize      int
	Cols, Rows    int
	Chips         []Chip
	Traces        []Trace

	chipAttempts  int
	traceAttempts int
	occupied      int
}

// Stats summarises a layout.
type Stats struct {
	Cols, Rows    int
	Chips         int
	Traces        int
	TraceCells    int
	OccupiedCells int
	ChipAttempts  int
	TraceAttempts int
}

func (l Layout) Stats() Stats {
	s := Stats{
		Cols:          l.Cols,
		Rows:          l.Rows,
		Chips:         len(l.Chips),
		Traces:        len(l.Traces),
		OccupiedCells: l.occupied,
		ChipAttempts:  l.chipAttempts,
		TraceAttempts: l.traceAttempts,
	}
	for _, t := range l.Traces {
		s.TraceCells += len(t.Cells)
	}
	return s
}

func attempts(width, height int, area float64) int {
	if width <= 0 || height <= 0 || area <= 0 {
		return 0
	}
	return int(float64(width) * float64(height) / area)
}

// Generate resets grid to the viewport and fills it with chips first, then
// traces. Attempts that collide are dropped, so the density is probabilistic.
func Generate(width, height int, p Params, src rng.Source, grid *Grid) Layout {
	cols, rows := Dims(width, height, p.CellSize)
	grid.Reset(cols, rows)

	l := Layout{
		Width:    width,
		Height:   height,
		CellSize: p.CellSize,
		Cols:     cols,
		Rows:     rows,
	}
	if cols == 0 || rows == 0 {
		return l
	}
	l.chipAttempts = attempts(width, height, p.ChipArea)
	l.traceAttempts = attempts(width, height, p.TraceArea)

	for i := 0; i < l.chipAttempts; i++ {
		if chip, ok := placeChip(grid, p, src); ok {
			l.Chips = append(l.Chips, chip)
		}
	}
	for i := 0; i < l.traceAttempts; i++ {
		if tr, ok := routeTrace(grid, p, src); ok {
			l.Traces = append(l.Traces, tr)
		}
	}
	l.occupied = grid.Occupied()
	return l
}

func placeChip(grid *Grid, p Params, src rng.Source) (Chip, bool) {
	w := rng.Between(src, p.ChipMinCells, p.ChipMaxCells)
	h := rng.Between(src, p.ChipMinCells, p.ChipMaxCells)

	// Top-left in [1, cols-w-2] x [1, rows-h-2] keeps the margin on the board.
	spanC := grid.Cols() - w - 2
	spanR := grid.Rows() - h - 2
	if spanC <= 0 || spanR <= 0 {
		return Chip{}, false
	}
	c := src.Intn(spanC) + 1
	r := src.Intn(spanR) + 1

	if !grid.IsFree(c-1, r-1, w+2, h+2) {
		return Chip{}, false
	}
	grid.MarkOccupied(c-1, r-1, w+2, h+2)

	cs := float64(p.CellSize)
	return Chip{
		Bounds: geom.Rect{X: float64(c) * cs, Y: float64(r) * cs, W: float64(w) * cs, H: float64(h) * cs},
		Col:    c,
		Row:    r,
		W:      w,
		H:      h,
	}, true
}

func routeTrace(grid *Grid, p Params, src rng.Source) (Trace, bool) {
	head := Cell{src.Intn(grid.Cols()), src.Intn(grid.Rows())}
	if grid.IsOccupied(head.Col, head.Row) {
		return Trace{}, false
	}
	path := []Cell{head}
	grid.MarkOccupied(head.Col, head.Row, 1, 1)

	dx, dy := initialDirection(src)
	steps := rng.Between(src, p.TraceMinSteps, p.TraceMaxSteps)

	for step := 0; step < steps; step++ {
		if rng.Coin(src, p.TurnChance) {
			dx, dy = turn(src)
		}
		next := Cell{head.Col + dx, head.Row + dy}
		if grid.IsOccupied(next.Col, next.Row) {
			break
		}
		path = append(path, next)
		grid.MarkOccupied(next.Col, next.Row, 1, 1)
		head = next
	}

	if len(path) < p.MinTracePoints {
		return Trace{}, false
	}
	return Trace{Cells: path, Points: centres(path, p.CellSize)}, true
}

// initialDirection is axis-aligned: horizontal half the time, otherwise
// vertical, each with a random sign.
func initialDirection(src rng.Source) (dx, dy int) {
	sx := rng.Sign(src)
	if src.Float64() > 0.5 {
		dx = sx
	}
	sy := rng.Sign(src)
	if dx == 0 {
		dy = sy
	}
	if dx == 0 && dy == 0 {
		dx = 1
	}
	return dx, dy
}

func turn(src rng.Source) (dx, dy int) {
	switch r := src.Float64(); {
	case r < 0.4:
		return 1, 0
	case r < 0.8:
		return 0, 1
	default:
		return rng.Sign(src), rng.Sign(src)
	}
}

func centres(cells []Cell, cellSize int) []geom.Point {
	cs := float64(cellSize)
	pts := make([]geom.Point, len(cells))
	for i, c := range cells {
		pts[i] = geom.Point{X: float64(c.Col)*cs + cs/2, Y: float64(c.Row)*cs + cs/2}
	}
	return pts
}
