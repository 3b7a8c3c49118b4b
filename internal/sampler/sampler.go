package sampler

import (
	"context"
	"fmt"
	stdnet "net"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/Dicklesworthstone/pimonitor/internal/model"
)

// Sampler reads host metrics through gopsutil. It is stateless: delta
// conversion happens in the screens' counters, so one Sampler can be shared
// by every collector.
type Sampler struct{}

func New() *Sampler { return &Sampler{} }

// CPUTimes returns aggregate cumulative CPU times.
func (s *Sampler) CPUTimes(ctx context.Context) (model.CPUTimes, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return model.CPUTimes{}, err
	}
	if len(times) == 0 {
		return model.CPUTimes{}, fmt.Errorf("no cpu times reported")
	}
	t := times[0]
	return model.CPUTimes{
		User:      t.User,
		System:    t.System,
		Idle:      t.Idle,
		Nice:      t.Nice,
		Iowait:    t.Iowait,
		Irq:       t.Irq,
		Softirq:   t.Softirq,
		Steal:     t.Steal,
		Guest:     t.Guest,
		GuestNice: t.GuestNice,
	}, nil
}

// CPUPercent returns overall utilisation since the previous call.
func (s *Sampler) CPUPercent(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("no cpu percent reported")
	}
	return pct[0], nil
}

// CorePercents returns per-core utilisation since the previous call.
func (s *Sampler) CorePercents(ctx context.Context) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, true)
}

// LoadAvg returns the system load averages.
func (s *Sampler) LoadAvg(ctx context.Context) (model.LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return model.LoadAvg{}, err
	}
	return model.LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

// NetCounters returns the cumulative counters of one interface.
func (s *Sampler) NetCounters(ctx context.Context, iface string) (model.NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return model.NetCounters{}, err
	}
	for _, c := range counters {
		if c.Name != iface {
			continue
		}
		return model.NetCounters{
			Name:        c.Name,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
			Errin:       c.Errin,
			Errout:      c.Errout,
			Dropin:      c.Dropin,
			Dropout:     c.Dropout,
		}, nil
	}
	return model.NetCounters{}, fmt.Errorf("interface %q not found", iface)
}

// IPv4 returns the first IPv4 address bound to iface, or "" if it has none.
func (s *Sampler) IPv4(ctx context.Context, iface string) (string, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return "", err
	}
	for _, i := range ifaces {
		if i.Name != iface {
			continue
		}
		for _, a := range i.Addrs {
			if ip := parseIPv4(a.Addr); ip != "" {
				return ip, nil
			}
		}
		return "", nil
	}
	return "", fmt.Errorf("interface %q not found", iface)
}

// parseIPv4 accepts "a.b.c.d/nn" or a bare address.
func parseIPv4(addr string) string {
	host := addr
	if strings.Contains(addr, "/") {
		ip, _, err := stdnet.ParseCIDR(addr)
		if err != nil {
			return ""
		}
		host = ip.String()
	}
	ip := stdnet.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return ""
	}
	return ip.To4().String()
}

// VirtualMemory returns the current memory gauges.
func (s *Sampler) VirtualMemory(ctx context.Context) (model.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.Memory{}, err
	}
	return model.Memory{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: vm.UsedPercent,
		Free:        vm.Free,
		Active:      vm.Active,
		Inactive:    vm.Inactive,
		Buffers:     vm.Buffers,
		Cached:      vm.Cached,
		Shared:      vm.Shared,
	}, nil
}

// DiskCounters returns cumulative I/O counters per block device, skipping
// loop devices.
func (s *Sampler) DiskCounters(ctx context.Context) (map[string]model.DiskCounters, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.DiskCounters, len(counters))
	for name, st := range counters {
		if strings.HasPrefix(name, "loop") {
			continue
		}
		out[name] = model.DiskCounters{
			Name:       name,
			ReadBytes:  st.ReadBytes,
			WriteBytes: st.WriteBytes,
			ReadCount:  st.ReadCount,
			WriteCount: st.WriteCount,
		}
	}
	return out, nil
}
