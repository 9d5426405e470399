// Package scene ties the board, the pulse simulator and the render pipeline
// into the single value a host drives: Resize when the viewport changes,
// Update once per tick, Draw once per frame.
package scene

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iburimskiy/circuit-background/internal/board"
	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/pulse"
	"github.com/iburimskiy/circuit-background/internal/render"
	"github.com/iburimskiy/circuit-background/internal/rng"
)

// Scene is not safe for concurrent use; hosts call it from one goroutine.
type Scene struct {
	cfg    config.Config
	params board.Params
	src    rng.Source
	logger *log.Logger

	grid     board.Grid
	layout   board.Layout
	points   [][]geom.Point
	sim      *pulse.Simulator
	pipeline *render.Pipeline

	frames uint64
}

// New returns a scene with an empty board. Call Resize before the first
// Update. A nil logger uses log.Default().
func New(cfg config.Config, src rng.Source, logger *log.Logger) *Scene {
	if logger == nil {
		logger = log.Default()
	}
	return &Scene{
		cfg:      cfg,
		params:   cfg.BoardParams(),
		src:      src,
		logger:   logger,
		sim:      pulse.NewSimulator(cfg.PulseParams(), src),
		pipeline: render.NewPipeline(cfg),
	}
}

// Resize regenerates the board for a w×h viewport and drops every pulse.
func (s *Scene) Resize(w, h int) {
	start := time.Now()
	s.layout = board.Generate(w, h, s.params, s.src, &s.grid)
	s.sim.Reset()

	s.points = s.points[:0]
	for _, t := range s.layout.Traces {
		s.points = append(s.points, t.Points)
	}

	st := s.layout.Stats()
	s.logger.Debug("layout regenerated",
		"size", geomSize(w, h),
		"cols", st.Cols,
		"rows", st.Rows,
		"chips", st.Chips,
		"traces", st.Traces,
		"elapsed", time.Since(start),
	)
}

// Update advances the simulation by one tick.
func (s *Scene) Update() {
	s.sim.Update(s.points)
	s.frames++
}

// Draw renders the current frame. A nil dst draws nothing.
func (s *Scene) Draw(dst render.Surface) {
	if dst == nil {
		return
	}
	s.pipeline.Frame(dst, &s.layout, s.sim.Active())
}

// Step lets a Scene be driven by loop.Clock.
func (s *Scene) Step(uint64) { s.Update() }

func (s *Scene) Layout() *board.Layout { return &s.layout }
func (s *Scene) Stats() board.Stats    { return s.layout.Stats() }
func (s *Scene) Config() config.Config { return s.cfg }

// Pulses returns the pulses still traveling.
func (s *Scene) Pulses() []*pulse.Pulse { return s.sim.Active() }

// Frames is the number of updates since the scene was created.
func (s *Scene) Frames() uint64 { return s.frames }

// Counters reports lifetime pulse spawn and retire counts.
func (s *Scene) Counters() (spawned, retired uint64) { return s.sim.Counters() }

func geomSize(w, h int) string {
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}
