package board

// Grid is the occupancy map over the viewport. A reserved cell can never be
// claimed again by a chip or a trace until the next Reset.
type Grid struct {
	cols, rows int
	cells      []bool
}

// NewGrid returns an all-free grid of cols x rows cells.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{}
	g.Reset(cols, rows)
	return g
}

// Dims returns cols and rows needed to cover a width x height viewport.
func Dims(width, height, cellSize int) (cols, rows int) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return 0, 0
	}
	return (width + cellSize - 1) / cellSize, (height + cellSize - 1) / cellSize
}

// Reset discards every reservation and resizes the grid.
func (g *Grid) Reset(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.cols, g.rows = cols, rows
	n := cols * rows
	if cap(g.cells) >= n {
		g.cells = g.cells[:n]
		clear(g.cells)
		return
	}
	g.cells = make([]bool, n)
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) inBounds(c, r int) bool {
	return c >= 0 && c < g.cols && r >= 0 && r < g.rows
}

// IsOccupied reports whether (c, r) is reserved. Cells outside the grid
// count as occupied.
func (g *Grid) IsOccupied(c, r int) bool {
	if !g.inBounds(c, r) {
		return true
	}
	return g.cells[r*g.cols+c]
}

// IsFree reports whether every cell of the w x h rectangle at (c, r) is free.
func (g *Grid) IsFree(c, r, w, h int) bool {
	for i := c; i < c+w; i++ {
		for j := r; j < r+h; j++ {
			if g.IsOccupied(i, j) {
				return false
			}
		}
	}
	return true
}

// MarkOccupied reserves the w x h rectangle at (c, r), clipped to the grid.
func (g *Grid) MarkOccupied(c, r, w, h int) {
	for i := c; i < c+w; i++ {
		for j := r; j < r+h; j++ {
			if g.inBounds(i, j) {
				g.cells[j*g.cols+i] = true
			}
		}
	}
}

// Occupied returns the number of reserved cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}
