// Package pulse moves glowing particles along routed traces.
//
// A pulse is spawned at the start of a trace, advances by its speed once per
// update, and is retired when it reaches the far end. An arrived pulse is
// never drawn; it is dropped from the list at the start of the next update.
package pulse

import (
	"image/color"

	"github.com/iburimskiy/circuit-background/internal/geom"
	"github.com/iburimskiy/circuit-background/internal/rng"
)

// Pulse is a particle traveling along one trace.
type Pulse struct {
	table   Table
	dist    float64
	speed   float64
	color   color.NRGBA
	arrived bool
}

// New returns a pulse at distance 0 of table.
func New(table Table, speed float64, c color.NRGBA) *Pulse {
	return &Pulse{table: table, speed: speed, color: c}
}

func (p *Pulse) Distance() float64  { return p.dist }
func (p *Pulse) Total() float64     { return p.table.Total }
func (p *Pulse) Speed() float64     { return p.speed }
func (p *Pulse) Color() color.NRGBA { return p.color }
func (p *Pulse) Table() Table       { return p.table }

// Arrived reports whether the pulse reached the end of its trace.
func (p *Pulse) Arrived() bool { return p.arrived }

// Advance moves the pulse forward by its speed, clamped to the trace length.
// It reports whether the pulse has arrived.
func (p *Pulse) Advance() bool {
	if p.arrived {
		return true
	}
	p.dist += p.speed
	if p.dist >= p.table.Total {
		p.dist = p.table.Total
		p.arrived = true
	}
	return p.arrived
}

// Head returns the current position.
func (p *Pulse) Head() (geom.Point, bool) {
	return p.table.PositionAt(p.dist)
}

// TrailDot is one sample of the fading tail.
type TrailDot struct {
	Pos   geom.Point
	Alpha float64
}

// Trail samples up to n dots behind the head, spacing px apart. Dot k sits at
// distance-spacing*k with alpha (1-k/n)*maxAlpha; samples at or before the
// trace start and fully transparent dots are skipped.
func (p *Pulse) Trail(n int, spacing, maxAlpha float64) []TrailDot {
	if n <= 0 {
		return nil
	}
	dots := make([]TrailDot, 0, n)
	for k := 1; k <= n; k++ {
		d := p.dist - spacing*float64(k)
		if d <= 0 {
			continue
		}
		a := (1 - float64(k)/float64(n)) * maxAlpha
		if a <= 0 {
			continue
		}
		pos, ok := p.table.PositionAt(d)
		if !ok {
			continue
		}
		dots = append(dots, TrailDot{Pos: pos, Alpha: a})
	}
	return dots
}

// Params controls spawning.
type Params struct {
	Chance    float64
	BaseSpeed float64
	Palette   []color.NRGBA
	MinPoints int
}

func DefaultParams() Params {
	return Params{
		Chance:    0.04,
		BaseSpeed: 2,
		Palette: []color.NRGBA{
			{0x00, 0xCF, 0xF9, 0xFF},
			{0x00, 0x99, 0xCC, 0xFF},
			{0x00, 0x66, 0x99, 0xFF},
		},
		MinPoints: 3,
	}
}

// Simulator owns the live pulse list.
type Simulator struct {
	params Params
	src    rng.Source
	pulses []*Pulse

	spawned, retired uint64
}

func NewSimulator(p Params, src rng.Source) *Simulator {
	return &Simulator{params: p, src: src}
}

// Reset drops every pulse and counts them as retired. Called when the traces
// they run on are replaced.
func (s *Simulator) Reset() {
	s.retired += uint64(len(s.pulses))
	clear(s.pulses)
	s.pulses = s.pulses[:0]
}

// Spawn attempts one spawn on a random trace with the configured chance.
func (s *Simulator) Spawn(traces [][]geom.Point) *Pulse {
	if !rng.Coin(s.src, s.params.Chance) || len(traces) == 0 {
		return nil
	}
	pts := traces[s.src.Intn(len(traces))]
	if len(pts) < s.params.MinPoints || len(pts) < 2 {
		return nil
	}
	return s.Launch(NewTable(pts))
}

// Launch adds a pulse on table with a random speed and palette colour.
func (s *Simulator) Launch(table Table) *Pulse {
	speed := s.params.BaseSpeed + s.src.Float64()
	var c color.NRGBA
	if n := len(s.params.Palette); n > 0 {
		c = s.params.Palette[s.src.Intn(n)]
	}
	p := New(table, speed, c)
	s.pulses = append(s.pulses, p)
	s.spawned++
	return p
}

// Update runs one frame: pulses that arrived last frame are dropped, a spawn
// is attempted, then every remaining pulse advances.
func (s *Simulator) Update(traces [][]geom.Point) {
	s.sweep()
	s.Spawn(traces)
	for _, p := range s.pulses {
		p.Advance()
	}
}

func (s *Simulator) sweep() {
	kept := s.pulses[:0]
	for _, p := range s.pulses {
		if p.Arrived() {
			s.retired++
			continue
		}
		kept = append(kept, p)
	}
	clear(s.pulses[len(kept):])
	s.pulses = kept
}

// Active returns the pulses still traveling, in spawn order.
func (s *Simulator) Active() []*Pulse {
	out := make([]*Pulse, 0, len(s.pulses))
	for _, p := range s.pulses {
		if !p.Arrived() {
			out = append(out, p)
		}
	}
	return out
}

// Len is the number of pulses held, including ones awaiting removal.
func (s *Simulator) Len() int { return len(s.pulses) }

// Counters returns lifetime spawn and retire counts. spawned-retired always
// equals Len.
func (s *Simulator) Counters() (spawned, retired uint64) { return s.spawned, s.retired }
