package widget

import (
	"sync"
	"time"
)

// stopwatch measures elapsed run time for the status screen. Zero value is
// a stopped watch at zero.
type stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	running bool
	accrued time.Duration
}

func (w *stopwatch) clock() func() time.Time {
	if w.now != nil {
		return w.now
	}
	return time.Now
}

// Start begins or resumes timing. Starting a running watch is a no-op.
func (w *stopwatch) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.started = w.clock()()
	w.running = true
}

// Stop pauses timing, keeping the accrued total.
func (w *stopwatch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.accrued += w.clock()().Sub(w.started)
	w.running = false
}

// Reset stops the watch and zeroes the total.
func (w *stopwatch) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	w.accrued = 0
}

// Restart zeroes the total and starts timing from now.
func (w *stopwatch) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accrued = 0
	w.started = w.clock()()
	w.running = true
}

// Elapsed returns the accrued running time.
func (w *stopwatch) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return w.accrued
	}
	return w.accrued + w.clock()().Sub(w.started)
}
