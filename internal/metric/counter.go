package metric

import "errors"

// ErrNotInitialized is returned by Record when Init has not been called.
var ErrNotInitialized = errors.New("metric: counter recorded before init")

// Counter converts a monotonically increasing cumulative counter into
// per-tick deltas. The last raw reading is kept outside the window.
type Counter struct {
	*Window

	last        float64
	initialized bool
}

// NewCounter creates a delta counter whose window holds size deltas.
func NewCounter(size int) *Counter {
	return &Counter{Window: NewWindow(size)}
}

// Init stores the first raw reading. It does not append to the window.
func (c *Counter) Init(raw float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = raw
	c.initialized = true
}

// Initialized reports whether Init has been called.
func (c *Counter) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Record appends raw minus the previous raw reading. A counter that went
// backwards (reset or wrap) records 0.
func (c *Counter) Record(raw float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return ErrNotInitialized
	}
	delta := raw - c.last
	if delta < 0 {
		delta = 0
	}
	c.push(delta)
	c.last = raw
	return nil
}

// Pair is an in/out pair of counters sharing a measure name.
type Pair struct {
	In  *Counter
	Out *Counter
}

// NewPair creates two counters of the given size.
func NewPair(size int) *Pair {
	return &Pair{In: NewCounter(size), Out: NewCounter(size)}
}

// Init initializes both directions.
func (p *Pair) Init(in, out float64) {
	p.In.Init(in)
	p.Out.Init(out)
}

// Record records both directions, returning the first error.
func (p *Pair) Record(in, out float64) error {
	if err := p.In.Record(in); err != nil {
		return err
	}
	return p.Out.Record(out)
}
