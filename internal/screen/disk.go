package screen

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
	"github.com/Dicklesworthstone/pimonitor/internal/model"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// MaxDiskDevices bounds the devices shown on the devices panel.
const MaxDiskDevices = 4

// DiskSource provides block device counters.
type DiskSource interface {
	DiskCounters(ctx context.Context) (map[string]model.DiskCounters, error)
}

// Disk shows block device throughput.
type Disk struct {
	panels
	opts options
	src  DiskSource

	bytes *metric.Pair
	ops   *metric.Pair

	mu      sync.RWMutex
	devices map[string]*metric.Counter
}

// NewDisk creates the disk screen.
func NewDisk(src DiskSource, opts ...Option) *Disk {
	d := &Disk{
		opts:    buildOptions(opts),
		src:     src,
		bytes:   metric.NewPair(metric.WindowSize),
		ops:     metric.NewPair(metric.WindowSize),
		devices: make(map[string]*metric.Counter),
	}
	d.add(render.Panel{Renderer: render.UpDown{}, Measure: "bytes", Name: "Bytes", XStart: 126, XStep: -4, ShowScale: true}, diskPair{d})
	d.add(render.Panel{Renderer: render.UpDown{MinScale: 10}, Measure: "ops", Name: "Ops", XStart: 126, XStep: -4, ShowScale: true}, diskPair{d})
	d.add(render.Panel{Renderer: render.LabeledBar{}, Measure: "devices", Name: "Devices", XStart: 4, XStep: 32}, diskDevices{d})
	return d
}

func (d *Disk) Name() string                  { return "disk" }
func (d *Disk) Interval() time.Duration       { return d.opts.interval }
func (d *Disk) Render(cv render.Canvas) error { return d.render(cv) }

// Collect initializes the counters, then records deltas every interval.
func (d *Disk) Collect(ctx context.Context) error {
	d.sample(ctx)
	return loop(ctx, d.opts.interval, d.sample)
}

func (d *Disk) sample(ctx context.Context) {
	counters, err := d.src.DiskCounters(ctx)
	if err != nil {
		d.opts.log.Warn("reading disk counters: %v", err)
		return
	}

	var rb, wb, rc, wc float64
	for _, c := range counters {
		rb += float64(c.ReadBytes)
		wb += float64(c.WriteBytes)
		rc += float64(c.ReadCount)
		wc += float64(c.WriteCount)
	}

	if !d.bytes.In.Initialized() {
		d.bytes.Init(rb, wb)
		d.ops.Init(rc, wc)
	} else {
		if err := d.bytes.Record(rb, wb); err != nil {
			d.opts.log.Error("recording disk bytes: %v", err)
		}
		if err := d.ops.Record(rc, wc); err != nil {
			d.opts.log.Error("recording disk ops: %v", err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for name, c := range counters {
		raw := float64(c.ReadBytes + c.WriteBytes)
		dc, ok := d.devices[name]
		if !ok {
			dc = metric.NewCounter(1)
			dc.Init(raw)
			d.devices[name] = dc
			continue
		}
		if err := dc.Record(raw); err != nil {
			d.opts.log.Error("recording %s: %v", name, err)
		}
	}
	for name := range d.devices {
		if _, ok := counters[name]; !ok {
			delete(d.devices, name)
		}
	}
}

// Devices returns up to MaxDiskDevices device names in sorted order.
func (d *Disk) Devices() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.devices))
	for name := range d.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > MaxDiskDevices {
		names = names[:MaxDiskDevices]
	}
	return names
}

func (d *Disk) header() string {
	return fmt.Sprintf("Disk:%s/%s", BytesToHuman(d.bytes.In.Last()), BytesToHuman(d.bytes.Out.Last()))
}

type diskPair struct{ d *Disk }

func (s diskPair) Header(render.Panel) string { return s.d.header() }

func (s diskPair) pair(p render.Panel) *metric.Pair {
	if p.Measure == "ops" {
		return s.d.ops
	}
	return s.d.bytes
}

func (s diskPair) Up(p render.Panel) []float64   { return s.pair(p).In.Samples() }
func (s diskPair) Down(p render.Panel) []float64 { return s.pair(p).Out.Samples() }

type diskDevices struct{ d *Disk }

func (s diskDevices) Header(render.Panel) string { return s.d.header() }

func (s diskDevices) Keys(render.Panel) []string { return s.d.Devices() }

func (s diskDevices) KeyValues(_ render.Panel, key string) []float64 {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	if c, ok := s.d.devices[key]; ok {
		return c.Samples()
	}
	return nil
}

func (s diskDevices) Scale(p render.Panel) float64 {
	var top float64
	for _, key := range s.Keys(p) {
		top = max(top, metric.Sum(s.KeyValues(p, key)))
	}
	return max(top, 1024)
}
