package board

import (
	"reflect"
	"testing"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/rng"
)

func generate(t *testing.T, w, h int, seed uint64) (Layout, *Grid) {
	t.Helper()
	g := &Grid{}
	return Generate(w, h, DefaultParams(), rng.New(seed), g), g
}

func marginCells(c Chip) map[Cell]bool {
	cells := map[Cell]bool{}
	for i := c.Col - 1; i <= c.Col+c.W; i++ {
		for j := c.Row - 1; j <= c.Row+c.H; j++ {
			cells[Cell{i, j}] = true
		}
	}
	return cells
}

func TestLayoutInvariants(t *testing.T) {
	sizes := [][2]int{{1920, 1080}, {1280, 720}, {800, 600}, {375, 812}}
	for _, sz := range sizes {
		for seed := uint64(1); seed <= 5; seed++ {
			l, grid := generate(t, sz[0], sz[1], seed)
			p := DefaultParams()

			claimed := map[Cell]string{}
			for ci, c := range l.Chips {
				if c.W < p.ChipMinCells || c.W > p.ChipMaxCells || c.H < p.ChipMinCells || c.H > p.ChipMaxCells {
					t.Fatalf("%v seed %d: chip %d has size %dx%d", sz, seed, ci, c.W, c.H)
				}
				want := geom.Rect{X: float64(c.Col * 30), Y: float64(c.Row * 30), W: float64(c.W * 30), H: float64(c.H * 30)}
				if c.Bounds != want {
					t.Fatalf("chip bounds %+v want %+v", c.Bounds, want)
				}
				for cell := range marginCells(c) {
					if cell.Col < 0 || cell.Row < 0 || cell.Col >= l.Cols || cell.Row >= l.Rows {
						t.Fatalf("chip %d margin leaves the board at %v", ci, cell)
					}
					if prev, ok := claimed[cell]; ok {
						t.Fatalf("%v seed %d: chip %d margin overlaps %s at %v", sz, seed, ci, prev, cell)
					}
					claimed[cell] = "chip"
				}
			}

			for ti, tr := range l.Traces {
				if len(tr.Points) < 3 || len(tr.Points) != len(tr.Cells) {
					t.Fatalf("trace %d has %d points / %d cells", ti, len(tr.Points), len(tr.Cells))
				}
				for i, cell := range tr.Cells {
					if prev, ok := claimed[cell]; ok {
						t.Fatalf("%v seed %d: trace %d reuses cell %v held by %s", sz, seed, ti, cell, prev)
					}
					claimed[cell] = "trace"
					if !grid.IsOccupied(cell.Col, cell.Row) {
						t.Fatalf("trace cell %v not marked", cell)
					}
					want := geom.Point{X: float64(cell.Col*30 + 15), Y: float64(cell.Row*30 + 15)}
					if tr.Points[i] != want {
						t.Fatalf("point %v want centre %v", tr.Points[i], want)
					}
					if i == 0 {
						continue
					}
					dc := cell.Col - tr.Cells[i-1].Col
					dr := cell.Row - tr.Cells[i-1].Row
					if dc < -1 || dc > 1 || dr < -1 || dr > 1 || (dc == 0 && dr == 0) {
						t.Fatalf("trace %d step %d jumps by (%d,%d)", ti, i, dc, dr)
					}
				}
				if len(tr.Cells) > p.TraceMaxSteps+1 {
					t.Fatalf("trace %d longer than the walk budget: %d", ti, len(tr.Cells))
				}
			}

			st := l.Stats()
			if st.OccupiedCells != grid.Occupied() {
				t.Fatalf("stats occupied %d grid %d", st.OccupiedCells, grid.Occupied())
			}
		}
	}
}

func TestFullHDBudgets(t *testing.T) {
	l, _ := generate(t, 1920, 1080, 3)
	st := l.Stats()
	if st.Cols != 64 || st.Rows != 36 {
		t.Fatalf("grid %dx%d want 64x36", st.Cols, st.Rows)
	}
	if st.ChipAttempts != 34 {
		t.Fatalf("chip attempts %d want 34", st.ChipAttempts)
	}
	if st.TraceAttempts != 1382 {
		t.Fatalf("trace attempts %d want 1382", st.TraceAttempts)
	}
	if st.Chips == 0 || st.Traces == 0 {
		t.Fatalf("expected a populated board, got %+v", st)
	}
	if st.Chips > st.ChipAttempts {
		t.Fatalf("more chips than attempts: %+v", st)
	}
}

func TestTinyViewportPlacesNoChips(t *testing.T) {
	l, grid := generate(t, 60, 60, 9)
	if l.Cols != 2 || l.Rows != 2 {
		t.Fatalf("grid %dx%d want 2x2", l.Cols, l.Rows)
	}
	if len(l.Chips) != 0 {
		t.Fatalf("placed %d chips on a 2x2 board", len(l.Chips))
	}
	st := l.Stats()
	if st.ChipAttempts != 0 || st.TraceAttempts != 2 {
		t.Fatalf("attempts %+v", st)
	}
	for _, tr := range l.Traces {
		if len(tr.Points) < 3 {
			t.Fatalf("short trace leaked: %v", tr.Points)
		}
	}
	if grid.Cols() != 2 {
		t.Fatal("grid not reset to viewport")
	}
}

func TestEmptyViewport(t *testing.T) {
	for _, sz := range [][2]int{{0, 0}, {-5, 100}, {100, 0}} {
		l, _ := generate(t, sz[0], sz[1], 1)
		if len(l.Chips) != 0 || len(l.Traces) != 0 || l.Cols != 0 {
			t.Fatalf("%v: expected empty layout, got %+v", sz, l.Stats())
		}
	}
}

func TestSameSeedSameBoard(t *testing.T) {
	a, _ := generate(t, 1024, 768, 77)
	b, _ := generate(t, 1024, 768, 77)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different layouts")
	}
}

func TestRegenerateDiscardsPreviousBoard(t *testing.T) {
	g := &Grid{}
	Generate(1920, 1080, DefaultParams(), rng.New(5), g)
	l := Generate(300, 300, DefaultParams(), rng.New(11), g)
	if g.Cols() != 10 || g.Rows() != 10 {
		t.Fatalf("grid %dx%d after resize", g.Cols(), g.Rows())
	}

	fresh := &Grid{}
	want := Generate(300, 300, DefaultParams(), rng.New(11), fresh)
	if !reflect.DeepEqual(l, want) {
		t.Fatal("regenerated board depends on the previous one")
	}
	if g.Occupied() != fresh.Occupied() {
		t.Fatalf("occupied %d want %d", g.Occupied(), fresh.Occupied())
	}
}

func TestChipLabel(t *testing.T) {
	c := Chip{Bounds: geom.Rect{X: 390, Y: 60, W: 60, H: 90}}
	if got := c.Label(); got != "IC-39" {
		t.Fatalf("label %q want IC-39", got)
	}
}

func TestWalkStopsAtObstacle(t *testing.T) {
	g := NewGrid(5, 1)
	// Start at (0,0) heading +x with a ten step budget and no turns.
	src := &rng.Scripted{Values: []float64{
		0.0, 0.0,
		0.9, 0.9, 0.9,
		0.0,
		0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9,
	}}
	p := DefaultParams()
	tr, ok := routeTrace(g, p, src)
	if !ok {
		t.Fatal("expected a trace")
	}
	want := []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	if !reflect.DeepEqual(tr.Cells, want) {
		t.Fatalf("cells %v want %v", tr.Cells, want)
	}
	if g.Occupied() != 5 {
		t.Fatalf("occupied %d want 5", g.Occupied())
	}
}

func TestShortWalkIsDiscardedButKeepsClaims(t *testing.T) {
	g := NewGrid(2, 1)
	src := &rng.Scripted{Values: []float64{0.0, 0.0, 0.9, 0.9, 0.9, 0.0, 0.9}}
	if _, ok := routeTrace(g, DefaultParams(), src); ok {
		t.Fatal("two-cell walk must be discarded")
	}
	if g.Occupied() != 2 {
		t.Fatalf("claimed cells stay reserved, occupied=%d", g.Occupied())
	}
}
