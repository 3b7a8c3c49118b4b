package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
	"github.com/Dicklesworthstone/pimonitor/internal/logger"
)

// edgePoll bounds WaitForEdge so watchers notice cancellation.
const edgePoll = 100 * time.Millisecond

// GPIO reads buttons wired between a pin and ground, using the internal
// pull-up: a low pin is a pressed button.
type GPIO struct {
	events chan Event
	pins   map[Channel]gpio.PinIn
	log    logger.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// OpenGPIO configures one pin per channel. Pin names are periph names such
// as "GPIO17".
func OpenGPIO(pins map[Channel]string, log logger.Logger) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Failed to initialize host drivers",
			"Run on a Linux board with GPIO access, or use --driver terminal")
	}
	return openPins(pins, gpioreg.ByName, log)
}

// openPins configures the pins in Channels order. If one fails, the pins
// already configured are halted before returning.
func openPins(pins map[Channel]string, byName func(string) gpio.PinIO, log logger.Logger) (*GPIO, error) {
	if log == nil {
		log = logger.Noop()
	}
	g := &GPIO{
		events: make(chan Event, 16),
		pins:   make(map[Channel]gpio.PinIn, len(pins)),
		log:    log,
		now:    time.Now,
	}
	for _, ch := range Channels {
		name, ok := pins[ch]
		if !ok {
			continue
		}
		p := byName(name)
		if p == nil {
			g.halt()
			return nil, errors.New(errors.ErrInput,
				fmt.Sprintf("Unknown GPIO pin %q for %s", name, ch),
				"Use periph pin names such as GPIO17 in buttons.*")
		}
		if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
			g.halt()
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				fmt.Sprintf("Failed to configure pin %s for %s", name, ch),
				"Check that the pin is not claimed by another driver")
		}
		g.pins[ch] = p
	}
	return g, nil
}

// halt releases every configured pin.
func (g *GPIO) halt() {
	for ch, p := range g.pins {
		if err := p.Halt(); err != nil {
			g.log.Warn("halting pin %s of %s: %v", p, ch, err)
		}
	}
}

func (g *GPIO) Events() <-chan Event { return g.events }

// Run watches every pin until ctx is done, then halts the pins and closes
// the event channel.
func (g *GPIO) Run(ctx context.Context) error {
	for ch, p := range g.pins {
		g.wg.Add(1)
		go g.watch(ctx, ch, p)
	}
	<-ctx.Done()
	g.wg.Wait()
	g.halt()
	close(g.events)
	return nil
}

func (g *GPIO) watch(ctx context.Context, ch Channel, p gpio.PinIn) {
	defer g.wg.Done()
	for ctx.Err() == nil {
		if !p.WaitForEdge(edgePoll) {
			continue
		}
		ev, ok := edge(ch, p.Read(), g.now())
		if !ok {
			continue
		}
		g.log.Debug("button %s %s", ch, ev.Level)
		select {
		case g.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// edge converts a pin level into an event. Navigation channels act on the
// press only; reset needs both edges to time the hold.
func edge(ch Channel, l gpio.Level, at time.Time) (Event, bool) {
	level := Released
	if l == gpio.Low {
		level = Pressed
	}
	if ch != Reset && level != Pressed {
		return Event{}, false
	}
	return Event{Channel: ch, Level: level, Time: at}, true
}
