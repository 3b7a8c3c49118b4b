// Package monitor owns the screen registry and turns button events and
// render ticks into state changes and redraws.
//
// One mutex serializes every navigation change and every draw, so a frame
// never shows a half-applied transition. Collectors run outside the lock;
// their windows guard themselves.
package monitor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
	"github.com/Dicklesworthstone/pimonitor/internal/input"
	"github.com/Dicklesworthstone/pimonitor/internal/logger"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
	"github.com/Dicklesworthstone/pimonitor/internal/screen"
)

// Defaults for Options.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultResetTimeout = 3 * time.Second
)

// debounceSlack lengthens the limiter period so that an event exactly
// Debounce after the last accepted one is still dropped. The limiter works
// in float seconds, so a single nanosecond could round away.
const debounceSlack = time.Microsecond

// Timer is a cancellable one-shot timer.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a Timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options tunes input handling.
type Options struct {
	// Debounce is the gap a navigation event must exceed, measured from the
	// last accepted one.
	Debounce time.Duration
	// ResetTimeout is how long reset must be held to return to the
	// default screen.
	ResetTimeout time.Duration
	// AfterFunc replaces time.AfterFunc in tests.
	AfterFunc AfterFunc
}

// Monitor dispatches input and drives rendering.
type Monitor struct {
	mu      sync.Mutex
	screens []screen.Screen
	active  int

	canvas  render.Canvas
	limiter *rate.Limiter
	opts    Options
	log     logger.Logger

	resetTimer Timer
	resetGen   uint64
}

// New creates a monitor drawing to canvas.
func New(canvas render.Canvas, opts Options, log logger.Logger) *Monitor {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = DefaultResetTimeout
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if log == nil {
		log = logger.Noop()
	}

	limit := rate.Inf
	if opts.Debounce > 0 {
		limit = rate.Every(opts.Debounce + debounceSlack)
	}
	return &Monitor{
		canvas:  canvas,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		log:     log,
	}
}

// Register appends a screen. The first registered screen is the default.
func (m *Monitor) Register(s screen.Screen) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screens = append(m.screens, s)
	m.log.Debug("registered screen %s with %d panels", s.Name(), s.PanelCount())
}

// ScreenCount returns the number of registered screens.
func (m *Monitor) ScreenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.screens)
}

// ActiveScreen returns the index and the screen currently shown.
func (m *Monitor) ActiveScreen() (int, screen.Screen) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.screens) == 0 {
		return 0, nil
	}
	return m.active, m.screens[m.active]
}

// HandleEvent applies one button event and redraws if anything changed.
func (m *Monitor) HandleEvent(ev input.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.screens) == 0 {
		return
	}
	if ev.Channel == input.Reset {
		m.handleReset(ev)
		return
	}
	if ev.Level != input.Pressed {
		return
	}
	if !m.limiter.AllowN(ev.Time, 1) {
		m.log.Debug("debounced %s", ev.Channel)
		return
	}

	n := len(m.screens)
	switch ev.Channel {
	case input.Next:
		m.active = (m.active + 1) % n
	case input.Previous:
		m.active = (m.active - 1 + n) % n
	case input.Up:
		m.screens[m.active].NextPanel()
	case input.Down:
		m.screens[m.active].PrevPanel()
	default:
		return
	}
	m.log.Debug("%s: screen %d panel %d", ev.Channel, m.active, m.screens[m.active].Panel())
	m.renderLocked()
}

// handleReset runs with mu held. A press arms the timer; a release before
// it fires is a short press and resets only the active screen's panel.
func (m *Monitor) handleReset(ev input.Event) {
	switch ev.Level {
	case input.Pressed:
		if m.resetTimer != nil {
			return
		}
		m.resetGen++
		gen := m.resetGen
		m.resetTimer = m.opts.AfterFunc(m.opts.ResetTimeout, func() { m.fireReset(gen) })
	case input.Released:
		if m.resetTimer == nil {
			return
		}
		m.resetTimer.Stop()
		m.resetTimer = nil
		m.screens[m.active].ResetPanel()
		m.log.Debug("reset panel of screen %d", m.active)
		m.renderLocked()
	}
}

// fireReset returns every screen to its first panel and shows the default
// screen. Stale timers are ignored by generation.
func (m *Monitor) fireReset(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resetTimer == nil || gen != m.resetGen {
		return
	}
	m.resetTimer = nil
	m.active = 0
	for _, s := range m.screens {
		s.ResetPanel()
	}
	m.log.Debug("reset to default screen")
	m.renderLocked()
}

// Render draws the active screen.
func (m *Monitor) Render() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderLocked()
}

func (m *Monitor) renderLocked() {
	if len(m.screens) == 0 {
		return
	}
	s := m.screens[m.active]
	if err := s.Render(m.canvas); err != nil {
		m.log.Error("rendering %s panel %d: %v", s.Name(), s.Panel(), err)
	}
}

func (m *Monitor) interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.screens) == 0 {
		return screen.DefaultInterval
	}
	return m.screens[m.active].Interval()
}

// Run starts every collector, then renders and dispatches events until
// ctx is done. It returns after all collectors have stopped.
func (m *Monitor) Run(ctx context.Context, events <-chan input.Event) error {
	m.mu.Lock()
	screens := append([]screen.Screen(nil), m.screens...)
	m.mu.Unlock()

	if len(screens) == 0 {
		return errors.New(errors.ErrConfig, "No screens registered",
			"Enable at least one screen in the configuration")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range screens {
		s := s
		g.Go(func() error {
			return s.Collect(gctx)
		})
	}
	g.Go(func() error {
		return m.loop(gctx, events)
	})
	err := g.Wait()

	m.mu.Lock()
	if m.resetTimer != nil {
		m.resetTimer.Stop()
		m.resetTimer = nil
	}
	m.mu.Unlock()
	return err
}

func (m *Monitor) loop(ctx context.Context, events <-chan input.Event) error {
	m.Render()
	timer := time.NewTimer(m.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.HandleEvent(ev)
		case <-timer.C:
			m.Render()
			timer.Reset(m.interval())
		}
	}
}
