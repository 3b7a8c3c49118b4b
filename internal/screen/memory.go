package screen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
	"github.com/Dicklesworthstone/pimonitor/internal/model"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// MemSource provides virtual memory gauges.
type MemSource interface {
	VirtualMemory(ctx context.Context) (model.Memory, error)
}

var memMeasures = []struct {
	key  string
	name string
	get  func(model.Memory) float64
}{
	{"percent", "Memory", func(m model.Memory) float64 { return m.UsedPercent }},
	{"used", "Used", func(m model.Memory) float64 { return float64(m.Used) }},
	{"available", "Available", func(m model.Memory) float64 { return float64(m.Available) }},
	{"free", "Free", func(m model.Memory) float64 { return float64(m.Free) }},
	{"active", "Active", func(m model.Memory) float64 { return float64(m.Active) }},
	{"inactive", "Inactive", func(m model.Memory) float64 { return float64(m.Inactive) }},
	{"buffers", "Buffers", func(m model.Memory) float64 { return float64(m.Buffers) }},
	{"cached", "Cached", func(m model.Memory) float64 { return float64(m.Cached) }},
	{"shared", "Shared", func(m model.Memory) float64 { return float64(m.Shared) }},
}

// Memory shows virtual memory usage.
type Memory struct {
	panels
	opts options
	src  MemSource

	windows map[string]*metric.Window

	mu        sync.RWMutex
	used      float64
	total     float64
	announced bool
}

// NewMemory creates the memory screen.
func NewMemory(src MemSource, opts ...Option) *Memory {
	m := &Memory{
		opts:    buildOptions(opts),
		src:     src,
		windows: make(map[string]*metric.Window, len(memMeasures)),
	}
	for i, ms := range memMeasures {
		m.windows[ms.key] = metric.NewWindow(metric.WindowSize)
		var src any = memGauge{m}
		if i == 0 {
			src = memPercent{m}
		}
		m.add(render.Panel{Renderer: render.Bar{}, Measure: ms.key, Name: ms.name, XStart: 126, XStep: -4}, src)
	}
	return m
}

func (m *Memory) Name() string                  { return "memory" }
func (m *Memory) Interval() time.Duration       { return m.opts.interval }
func (m *Memory) Render(cv render.Canvas) error { return m.render(cv) }

// Collect appends one reading of every gauge per interval.
func (m *Memory) Collect(ctx context.Context) error {
	m.sample(ctx)
	return loop(ctx, m.opts.interval, m.sample)
}

func (m *Memory) sample(ctx context.Context) {
	vm, err := m.src.VirtualMemory(ctx)
	if err != nil {
		m.opts.log.Warn("reading virtual memory: %v", err)
		return
	}
	for _, ms := range memMeasures {
		m.windows[ms.key].Append(ms.get(vm))
	}

	m.mu.Lock()
	m.used = float64(vm.Used)
	m.total = float64(vm.Total)
	first := !m.announced
	m.announced = true
	m.mu.Unlock()

	if first {
		m.opts.log.Info("memory total %s", humanize.IBytes(vm.Total))
	}
}

// Totals returns the latest used and total bytes.
func (m *Memory) Totals() (used, total float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used, m.total
}

type memPercent struct{ m *Memory }

func (s memPercent) Header(p render.Panel) string {
	return fmt.Sprintf("%s:%.1f%%", p.Name, s.m.windows[p.Measure].Last())
}

func (s memPercent) Values(p render.Panel) []float64 { return s.m.windows[p.Measure].Samples() }

type memGauge struct{ m *Memory }

func (s memGauge) Header(p render.Panel) string {
	_, total := s.m.Totals()
	return fmt.Sprintf("%s:%s/%s", p.Name, BytesToHuman(s.m.windows[p.Measure].Last()), BytesToHuman(total))
}

func (s memGauge) Values(p render.Panel) []float64 { return s.m.windows[p.Measure].Samples() }

func (s memGauge) Scale(render.Panel) float64 {
	_, total := s.m.Totals()
	return total
}
