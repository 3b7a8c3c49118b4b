// Package screen implements the selectable display modes. Each screen owns
// its sample windows, runs its own collection loop and renders whichever
// of its panels is selected.
package screen

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/pimonitor/internal/logger"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// DefaultInterval is the collection and redraw period of every screen.
const DefaultInterval = time.Second

// Screen is one top-level display mode.
//
// Collect appends to the screen's windows until ctx is cancelled. Render
// and the panel navigation methods are called by the monitor under its
// render lock and must not block on collection.
type Screen interface {
	Name() string
	Collect(ctx context.Context) error
	Render(c render.Canvas) error
	NextPanel()
	PrevPanel()
	ResetPanel()
	Panel() int
	PanelCount() int
	Interval() time.Duration
}

// Option configures a screen.
type Option func(*options)

type options struct {
	interval time.Duration
	log      logger.Logger
}

// WithInterval overrides the collection period.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithLogger sets the logger used by the collection loop.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{interval: DefaultInterval, log: logger.Noop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// entry binds a panel to the source its renderer reads.
type entry struct {
	panel render.Panel
	src   any
}

// panels is the ordered panel list and the wrapping selection index.
type panels struct {
	entries []entry
	index   int
}

func (p *panels) add(panel render.Panel, src any) {
	p.entries = append(p.entries, entry{panel: panel, src: src})
}

func (p *panels) NextPanel() {
	p.index = (p.index + 1) % len(p.entries)
}

func (p *panels) PrevPanel() {
	p.index = (p.index - 1 + len(p.entries)) % len(p.entries)
}

func (p *panels) ResetPanel() { p.index = 0 }

func (p *panels) Panel() int { return p.index }

func (p *panels) PanelCount() int { return len(p.entries) }

// render draws the selected panel inside one committed frame.
func (p *panels) render(c render.Canvas) error {
	e := p.entries[p.index]
	return c.Draw(func(s render.Surface) error {
		return e.panel.Renderer.Render(s, e.panel, e.src)
	})
}

// loop calls fn every interval until ctx is done.
func loop(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn(ctx)
		}
	}
}
