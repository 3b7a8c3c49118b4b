package screen

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
	"github.com/Dicklesworthstone/pimonitor/internal/model"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// QuadCores is the number of cores shown on the quad view.
const QuadCores = 4

// CPUSource provides CPU readings.
type CPUSource interface {
	CPUTimes(ctx context.Context) (model.CPUTimes, error)
	CPUPercent(ctx context.Context) (float64, error)
	CorePercents(ctx context.Context) ([]float64, error)
	LoadAvg(ctx context.Context) (model.LoadAvg, error)
}

var cpuStateNames = map[string]string{
	"user":       "User",
	"system":     "System",
	"idle":       "Idle",
	"nice":       "Nice",
	"iowait":     "IOWait",
	"irq":        "IRQ",
	"softirq":    "Soft IRQ",
	"steal":      "Steal",
	"guest":      "Guest",
	"guest_nice": "Guest Nice",
}

var loadKeys = []string{"1m", "5m", "15m"}

// CPU shows per-core traces, overall utilisation, per-state time deltas
// and load averages.
type CPU struct {
	panels
	opts options
	src  CPUSource

	percent *metric.Window
	states  map[string]*metric.Counter
	cores   [QuadCores]*metric.Window
	load    map[string]*metric.Window
}

// NewCPU creates the CPU screen.
func NewCPU(src CPUSource, opts ...Option) *CPU {
	c := &CPU{
		opts:    buildOptions(opts),
		src:     src,
		percent: metric.NewWindow(metric.WindowSize),
		states:  make(map[string]*metric.Counter, len(model.CPUStates)),
		load:    make(map[string]*metric.Window, len(loadKeys)),
	}
	for _, s := range model.CPUStates {
		c.states[s] = metric.NewCounter(metric.WindowSize)
	}
	for i := range c.cores {
		c.cores[i] = metric.NewWindow(metric.CoreWindowSize)
	}
	for _, k := range loadKeys {
		c.load[k] = metric.NewWindow(metric.WindowSize)
	}

	c.add(render.Panel{Renderer: render.QuadCPU{}, Measure: "cores", Name: "CPU"}, cpuCores{c})
	c.add(render.Panel{Renderer: render.Bar{}, Measure: "percent", Name: "CPU", XStart: 126, XStep: -4}, cpuPercent{c})
	for _, s := range model.CPUStates {
		c.add(render.Panel{Renderer: render.Bar{}, Measure: s, Name: cpuStateNames[s], XStart: 126, XStep: -4}, cpuState{c})
	}
	c.add(render.Panel{Renderer: render.LabeledBar{}, Measure: "load", Name: "Load", XStart: 16, XStep: 40}, cpuLoad{c})
	return c
}

func (c *CPU) Name() string                  { return "cpu" }
func (c *CPU) Interval() time.Duration       { return c.opts.interval }
func (c *CPU) Render(cv render.Canvas) error { return c.render(cv) }

// Collect initializes the time counters, then samples every interval.
func (c *CPU) Collect(ctx context.Context) error {
	c.sample(ctx)
	return loop(ctx, c.opts.interval, c.sample)
}

func (c *CPU) initialized() bool {
	return c.states[model.CPUStates[0]].Initialized()
}

func (c *CPU) sample(ctx context.Context) {
	log := c.opts.log

	if !c.initialized() {
		times, err := c.src.CPUTimes(ctx)
		if err != nil {
			log.Warn("reading cpu times: %v", err)
			return
		}
		for _, s := range model.CPUStates {
			c.states[s].Init(times.Get(s))
		}
		log.Debug("cpu counters initialized")
		return
	}

	if pct, err := c.src.CPUPercent(ctx); err != nil {
		log.Warn("reading cpu percent: %v", err)
	} else {
		c.percent.Append(pct)
	}

	if times, err := c.src.CPUTimes(ctx); err != nil {
		log.Warn("reading cpu times: %v", err)
	} else {
		for _, s := range model.CPUStates {
			if err := c.states[s].Record(times.Get(s)); err != nil {
				log.Error("recording %s: %v", s, err)
			}
		}
	}

	if cores, err := c.src.CorePercents(ctx); err != nil {
		log.Warn("reading per-core percent: %v", err)
	} else {
		for i, pct := range cores {
			if i >= QuadCores {
				break
			}
			c.cores[i].Append(pct)
		}
	}

	if avg, err := c.src.LoadAvg(ctx); err != nil {
		log.Warn("reading load average: %v", err)
	} else {
		c.load["1m"].Append(avg.Load1)
		c.load["5m"].Append(avg.Load5)
		c.load["15m"].Append(avg.Load15)
	}
}

type cpuCores struct{ c *CPU }

func (s cpuCores) Series(render.Panel) [][]float64 {
	out := make([][]float64, QuadCores)
	for i, w := range s.c.cores {
		out[i] = w.Samples()
	}
	return out
}

type cpuPercent struct{ c *CPU }

func (s cpuPercent) Header(p render.Panel) string {
	return fmt.Sprintf("%s:%.1f%%", p.Name, s.c.percent.Last())
}

func (s cpuPercent) Values(render.Panel) []float64 { return s.c.percent.Samples() }

type cpuState struct{ c *CPU }

func (s cpuState) Header(p render.Panel) string {
	return fmt.Sprintf("%s:%.2f", p.Name, s.c.states[p.Measure].Last())
}

func (s cpuState) Values(p render.Panel) []float64 { return s.c.states[p.Measure].Samples() }

func (s cpuState) Scale(p render.Panel) float64 {
	return math.Max(s.c.states[p.Measure].Max(), 100)
}

type cpuLoad struct{ c *CPU }

func (s cpuLoad) Header(p render.Panel) string {
	return fmt.Sprintf("%s:%.2f", p.Name, s.c.load["1m"].Last())
}

func (s cpuLoad) Keys(render.Panel) []string { return loadKeys }

func (s cpuLoad) KeyValues(_ render.Panel, key string) []float64 {
	return []float64{s.c.load[key].Last()}
}

func (s cpuLoad) Scale(render.Panel) float64 {
	var top float64
	for _, k := range loadKeys {
		top = math.Max(top, s.c.load[k].Last())
	}
	return math.Max(math.Ceil(top), 1)
}
