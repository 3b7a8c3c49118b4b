package model

// CPUTimes holds cumulative per-state CPU seconds since boot.
type CPUTimes struct {
	User      float64
	System    float64
	Idle      float64
	Nice      float64
	Iowait    float64
	Irq       float64
	Softirq   float64
	Steal     float64
	Guest     float64
	GuestNice float64
}

// CPUStates lists the state names in display order.
var CPUStates = []string{
	"user", "system", "idle", "nice", "iowait",
	"irq", "softirq", "steal", "guest", "guest_nice",
}

// Get returns the cumulative seconds for one of CPUStates.
func (t CPUTimes) Get(state string) float64 {
	switch state {
	case "user":
		return t.User
	case "system":
		return t.System
	case "idle":
		return t.Idle
	case "nice":
		return t.Nice
	case "iowait":
		return t.Iowait
	case "irq":
		return t.Irq
	case "softirq":
		return t.Softirq
	case "steal":
		return t.Steal
	case "guest":
		return t.Guest
	case "guest_nice":
		return t.GuestNice
	}
	return 0
}

// LoadAvg is the 1/5/15 minute run-queue average.
type LoadAvg struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// NetCounters holds cumulative counters for one interface.
type NetCounters struct {
	Name        string
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
	Errin       uint64
	Errout      uint64
	Dropin      uint64
	Dropout     uint64
}

// Memory captures virtual memory gauges in bytes.
type Memory struct {
	Total       uint64
	Available   uint64
	Used        uint64
	UsedPercent float64
	Free        uint64
	Active      uint64
	Inactive    uint64
	Buffers     uint64
	Cached      uint64
	Shared      uint64
}

// DiskCounters holds cumulative I/O counters for one block device.
type DiskCounters struct {
	Name       string
	ReadBytes  uint64
	WriteBytes uint64
	ReadCount  uint64
	WriteCount uint64
}
