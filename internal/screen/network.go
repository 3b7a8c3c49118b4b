package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
	"github.com/Dicklesworthstone/pimonitor/internal/metric"
	"github.com/Dicklesworthstone/pimonitor/internal/model"
	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// NetMinScale is the smallest full-scale value of a network panel.
const NetMinScale = 10240

// NetSource provides per-interface counters and addresses.
type NetSource interface {
	NetCounters(ctx context.Context, iface string) (model.NetCounters, error)
	IPv4(ctx context.Context, iface string) (string, error)
}

var netMeasures = []struct {
	key  string
	name string
}{
	{"bytes", "Bytes"},
	{"packets", "Packets"},
	{"errors", "Errors"},
	{"dropped", "Dropped"},
}

// Network shows in/out traffic of one interface.
type Network struct {
	panels
	opts  options
	src   NetSource
	iface string
	ip    string

	pairs map[string]*metric.Pair
}

// NewNetwork resolves the IPv4 address of iface and creates its screen.
// An interface without an IPv4 address is an ErrEnv error.
func NewNetwork(ctx context.Context, src NetSource, iface string, opts ...Option) (*Network, error) {
	ip, err := src.IPv4(ctx, iface)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrEnv,
			fmt.Sprintf("Cannot read interface %s", iface),
			"Check network.interfaces in the config against `ip addr`")
	}
	if ip == "" {
		return nil, errors.New(errors.ErrEnv,
			fmt.Sprintf("Interface %s has no IPv4 address", iface),
			"Bring the interface up or remove it from network.interfaces")
	}

	n := &Network{
		opts:  buildOptions(opts),
		src:   src,
		iface: iface,
		ip:    ip,
		pairs: make(map[string]*metric.Pair, len(netMeasures)),
	}
	for _, m := range netMeasures {
		n.pairs[m.key] = metric.NewPair(metric.WindowSize)
		n.add(render.Panel{
			Renderer:  render.UpDown{MinScale: NetMinScale},
			Measure:   m.key,
			Name:      m.name,
			XStart:    126,
			XStep:     -4,
			ShowScale: true,
		}, netPair{n})
	}
	return n, nil
}

func (n *Network) Name() string                  { return "net:" + n.iface }
func (n *Network) Interval() time.Duration       { return n.opts.interval }
func (n *Network) Render(cv render.Canvas) error { return n.render(cv) }

// Interface returns the interface name and its address.
func (n *Network) Interface() (name, ip string) { return n.iface, n.ip }

// Collect initializes the counters, then records deltas every interval.
func (n *Network) Collect(ctx context.Context) error {
	n.sample(ctx)
	return loop(ctx, n.opts.interval, n.sample)
}

// directions maps counters onto the in/out windows. Errors and drops keep
// the inverted assignment the display has always shown.
func directions(c model.NetCounters) map[string][2]float64 {
	return map[string][2]float64{
		"bytes":   {float64(c.BytesRecv), float64(c.BytesSent)},
		"packets": {float64(c.PacketsRecv), float64(c.PacketsSent)},
		"errors":  {float64(c.Errout), float64(c.Errin)},
		"dropped": {float64(c.Dropout), float64(c.Dropin)},
	}
}

func (n *Network) sample(ctx context.Context) {
	c, err := n.src.NetCounters(ctx, n.iface)
	if err != nil {
		n.opts.log.Warn("reading counters of %s: %v", n.iface, err)
		return
	}
	for key, v := range directions(c) {
		p := n.pairs[key]
		if !p.In.Initialized() {
			p.Init(v[0], v[1])
			continue
		}
		if err := p.Record(v[0], v[1]); err != nil {
			n.opts.log.Error("recording %s/%s: %v", n.iface, key, err)
		}
	}
}

type netPair struct{ n *Network }

func (s netPair) Header(render.Panel) string {
	return s.n.iface + ":" + s.n.ip
}

func (s netPair) Up(p render.Panel) []float64   { return s.n.pairs[p.Measure].In.Samples() }
func (s netPair) Down(p render.Panel) []float64 { return s.n.pairs[p.Measure].Out.Samples() }
