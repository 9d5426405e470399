package game

import (
	"sync"
	"time"
)

// frameRing records the last N frame times so the overlay can graph them.
type frameRing struct {
	buffer    []time.Duration
	nextIndex int
	filled    bool
	mu        sync.RWMutex
}

func newFrameRing(size int) *frameRing {
	return &frameRing{buffer: make([]time.Duration, size)}
}

func (r *frameRing) push(d time.Duration) {
	r.mu.Lock()
	r.buffer[r.nextIndex] = d
	r.nextIndex++
	if r.nextIndex >= len(r.buffer) {
		r.nextIndex = 0
		r.filled = true
	}
	r.mu.Unlock()
}

func (r *frameRing) len() int {
	if r.filled {
		return len(r.buffer)
	}
	return r.nextIndex
}

// snapshot returns up to the last n frame times, oldest first.
func (r *frameRing) snapshot(n int) []time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n = min(n, r.len())
	out := make([]time.Duration, n)
	idx := r.nextIndex - n
	if idx < 0 {
		idx += len(r.buffer)
	}
	for i := range out {
		out[i] = r.buffer[idx]
		idx++
		if idx >= len(r.buffer) {
			idx = 0
		}
	}
	return out
}

// mean is the average over every recorded frame.
func (r *frameRing) mean() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.len()
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range r.buffer[:n] {
		sum += d
	}
	return sum / time.Duration(n)
}
