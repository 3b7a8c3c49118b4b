package cli

import (
	"context"
	"io"
	stdlog "log"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/pimonitor/internal/config"
	"github.com/Dicklesworthstone/pimonitor/internal/display"
	"github.com/Dicklesworthstone/pimonitor/internal/errors"
	"github.com/Dicklesworthstone/pimonitor/internal/input"
	"github.com/Dicklesworthstone/pimonitor/internal/logger"
	"github.com/Dicklesworthstone/pimonitor/internal/monitor"
	"github.com/Dicklesworthstone/pimonitor/internal/sampler"
	"github.com/Dicklesworthstone/pimonitor/internal/screen"
	"github.com/Dicklesworthstone/pimonitor/internal/ui"
)

// debugLogFile receives log output while the terminal driver owns the screen.
const debugLogFile = "pimonitor-debug.log"

// metricSource is everything the screens read.
type metricSource interface {
	screen.CPUSource
	screen.NetSource
	screen.MemSource
	screen.DiskSource
}

func newLogger(cfg *config.Config, prefix string) logger.Logger {
	if cfg.Debug {
		return logger.NewDebugLogger(prefix)
	}
	return logger.NewEnvLogger(prefix)
}

// buildScreens creates every configured screen in display order: CPU, one
// per interface, memory, then disk. Any failure aborts the whole set.
func buildScreens(ctx context.Context, cfg *config.Config, src metricSource) ([]screen.Screen, error) {
	opts := func(name string) []screen.Option {
		return []screen.Option{
			screen.WithInterval(cfg.Interval),
			screen.WithLogger(newLogger(cfg, "["+name+"]")),
		}
	}

	screens := []screen.Screen{screen.NewCPU(src, opts("cpu")...)}
	for _, iface := range cfg.Network.Iface {
		n, err := screen.NewNetwork(ctx, src, iface, opts(iface)...)
		if err != nil {
			return nil, err
		}
		screens = append(screens, n)
	}
	screens = append(screens, screen.NewMemory(src, opts("memory")...))
	if cfg.Disk.Enabled {
		screens = append(screens, screen.NewDisk(src, opts("disk")...))
	}
	return screens, nil
}

func buttonPins(b config.ButtonsConfig) map[input.Channel]string {
	return map[input.Channel]string{
		input.Next:     b.PinNext,
		input.Previous: b.PinPrevious,
		input.Up:       b.PinUp,
		input.Down:     b.PinDown,
		input.Reset:    b.PinReset,
	}
}

// device is an opened display plus the button source feeding it.
type device struct {
	canvas  *display.Canvas
	events  <-chan input.Event
	run     func(ctx context.Context) error
	logFile io.Closer
}

func (d *device) Close() error {
	if d.logFile != nil {
		d.logFile.Close()
	}
	return d.canvas.Close()
}

func openDevice(cfg *config.Config) (*device, error) {
	if cfg.Display.Driver == config.DriverTerminal {
		// The terminal belongs to the simulator; logs go to a file or nowhere.
		var logFile io.Closer
		if cfg.Debug {
			f, err := tea.LogToFile(debugLogFile, "")
			if err != nil {
				return nil, errors.WrapWithCode(err, errors.ErrDisplay,
					"Cannot open "+debugLogFile,
					"Run from a writable directory or drop --debug")
			}
			logFile = f
		} else {
			stdlog.SetOutput(io.Discard)
		}
		sim := ui.NewSimulator(cfg.Buttons.ResetTimeout, tea.WithAltScreen())
		return &device{
			canvas:  display.NewCanvas(sim, cfg.Display.Width, cfg.Display.Height),
			events:  sim.Events(),
			run:     sim.Run,
			logFile: logFile,
		}, nil
	}

	oled, err := display.OpenSSD1306(display.SSD1306Options{
		Bus:     cfg.Display.Bus,
		Width:   cfg.Display.Width,
		Height:  cfg.Display.Height,
		Rotated: cfg.Display.Rotated,
	})
	if err != nil {
		return nil, err
	}
	buttons, err := input.OpenGPIO(buttonPins(cfg.Buttons), newLogger(cfg, "[input]"))
	if err != nil {
		oled.Close()
		return nil, err
	}
	return &device{
		canvas: display.NewCanvas(oled, cfg.Display.Width, cfg.Display.Height),
		events: buttons.Events(),
		run:    buttons.Run,
	}, nil
}

// run builds the screens before touching hardware, so a bad interface
// aborts startup without blanking the display.
func run(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg, "[pimonitor]")
	for _, f := range cfg.Files {
		log.Debug("loaded config %s", f)
	}

	screens, err := buildScreens(ctx, cfg, sampler.New())
	if err != nil {
		return err
	}

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	mon := monitor.New(dev.canvas, monitor.Options{
		Debounce:     cfg.Buttons.DebounceTime,
		ResetTimeout: cfg.Buttons.ResetTimeout,
	}, newLogger(cfg, "[monitor]"))
	for _, s := range screens {
		mon.Register(s)
	}
	log.Info("running %d screens on %s", len(screens), cfg.Display.Driver)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The device ending (terminal quit) stops everything.
		defer cancel()
		return dev.run(gctx)
	})
	g.Go(func() error {
		return mon.Run(gctx, dev.events)
	})
	return g.Wait()
}
