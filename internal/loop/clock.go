// Package loop drives a Stepper at a fixed interval for hosts that do not
// have their own frame callback (terminal preview, headless recording).
package loop

import (
	"context"
	"sync"
	"time"
)

// Stepper runs one frame. frame counts from 0.
type Stepper interface {
	Step(frame uint64)
}

// StepFunc adapts a plain function to Stepper.
type StepFunc func(frame uint64)

func (f StepFunc) Step(frame uint64) { f(frame) }

// Clock ticks a Stepper on the goroutine that calls Run.
type Clock struct {
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}

	mu     sync.Mutex
	frames uint64
}

// NewClock returns a clock ticking every interval. A non-positive interval
// falls back to 60 ticks per second.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Clock{interval: interval, stopCh: make(chan struct{})}
}

// FPS returns a clock ticking fps times per second.
func FPS(fps int) *Clock {
	if fps <= 0 {
		return NewClock(0)
	}
	return NewClock(time.Second / time.Duration(fps))
}

func (c *Clock) Interval() time.Duration { return c.interval }

// Run blocks, calling s.Step once per tick, until Stop is called or ctx is
// done. It returns ctx.Err() when the context ended the run and nil after
// Stop. A stopped clock returns immediately.
func (c *Clock) Run(ctx context.Context, s Stepper) error {
	select {
	case <-c.stopCh:
		return nil
	default:
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return nil
		case <-ticker.C:
		}

		// Stop wins over a tick that was already pending.
		select {
		case <-c.stopCh:
			return nil
		default:
		}

		c.mu.Lock()
		frame := c.frames
		c.frames++
		c.mu.Unlock()

		s.Step(frame)
	}
}

// Stop ends Run. It is safe to call more than once and from any goroutine,
// including from inside Step.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Frames is the number of steps run so far.
func (c *Clock) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}
