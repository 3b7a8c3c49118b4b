// Package metric holds the fixed-capacity sample windows that screens
// collect into and renderers read from.
package metric

import "sync"

// Window capacities used by the screens. Each sample is roughly one second.
const (
	WindowSize     = 31
	CoreWindowSize = 62
)

// Window is a fixed-size FIFO of float64 samples. The oldest sample is
// dropped once the window is full. Appends and reads may happen from
// different goroutines; reads return a snapshot.
type Window struct {
	mu    sync.RWMutex
	data  []float64
	head  int
	count int
}

// NewWindow creates a window holding at most size samples.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = WindowSize
	}
	return &Window{data: make([]float64, size)}
}

// Append adds a gauge value without any delta conversion.
func (w *Window) Append(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.push(v)
}

// push must be called with w.mu held.
func (w *Window) push(v float64) {
	w.data[w.head] = v
	w.head = (w.head + 1) % len(w.data)
	if w.count < len(w.data) {
		w.count++
	}
}

// Samples returns the window contents, oldest first.
func (w *Window) Samples() []float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.count == 0 {
		return nil
	}
	size := len(w.data)
	out := make([]float64, w.count)
	start := (w.head - w.count + size) % size
	for i := 0; i < w.count; i++ {
		out[i] = w.data[(start+i)%size]
	}
	return out
}

// Last returns the newest sample, or 0 when the window is empty.
func (w *Window) Last() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.count == 0 {
		return 0
	}
	size := len(w.data)
	return w.data[(w.head-1+size)%size]
}

// Max returns the largest sample, or 0 when the window is empty.
func (w *Window) Max() float64 {
	return Max(w.Samples())
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.data)
}

// Max returns the largest value in values, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Sum adds up values.
func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}
