// Package rotator cycles the hero headline through a fixed list of roles.
package rotator

import (
	"sync"
	"time"

	"github.com/sumitbaghel/portfolio/internal/clock"
)

// Interval is the time each role stays on screen.
const Interval = 3 * time.Second

// Rotator advances an index over n items every Interval until closed.
type Rotator struct {
	mu       sync.Mutex
	n        int
	index    int
	clock    clock.Clock
	timer    clock.Timer
	onChange func(index int)
	closed   bool
}

// New returns a stopped rotator over n items.
func New(n int, clk clock.Clock) *Rotator {
	return &Rotator{n: n, clock: clk}
}

// OnChange registers fn to receive the new index after each step. fn runs
// with the rotator locked.
func (r *Rotator) OnChange(fn func(index int)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Start schedules the first step. Rotating fewer than two items is a no-op.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.timer != nil || r.n < 2 {
		return
	}
	r.timer = r.clock.AfterFunc(Interval, r.step)
}

// Index returns the current index.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *Rotator) step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.index = (r.index + 1) % r.n
	if r.onChange != nil {
		r.onChange(r.index)
	}
	r.timer = r.clock.AfterFunc(Interval, r.step)
}

// Close stops rotating.
func (r *Rotator) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
