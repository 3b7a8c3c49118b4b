package screen

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
	"github.com/Dicklesworthstone/pimonitor/internal/logger"
	"github.com/Dicklesworthstone/pimonitor/internal/model"
	"github.com/Dicklesworthstone/pimonitor/internal/render/rendertest"
)

type fakeCPU struct {
	mu    sync.Mutex
	ticks float64
	fail  bool
}

func (f *fakeCPU) CPUTimes(context.Context) (model.CPUTimes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.CPUTimes{}, stderrors.New("cpu times unavailable")
	}
	f.ticks++
	return model.CPUTimes{User: 10 * f.ticks, System: 5 * f.ticks, Idle: 100 * f.ticks}, nil
}

func (f *fakeCPU) CPUPercent(context.Context) (float64, error) { return 42.5, nil }

func (f *fakeCPU) CorePercents(context.Context) ([]float64, error) {
	return []float64{10, 20, 30, 40, 50, 60}, nil
}

func (f *fakeCPU) LoadAvg(context.Context) (model.LoadAvg, error) {
	return model.LoadAvg{Load1: 1.5, Load5: 0.75, Load15: 0.25}, nil
}

type fakeNet struct {
	ip       string
	err      error
	counters model.NetCounters
}

func (f *fakeNet) NetCounters(context.Context, string) (model.NetCounters, error) {
	return f.counters, nil
}

func (f *fakeNet) IPv4(context.Context, string) (string, error) { return f.ip, f.err }

type fakeMem struct{ vm model.Memory }

func (f fakeMem) VirtualMemory(context.Context) (model.Memory, error) { return f.vm, nil }

type fakeDisk struct{ counters map[string]model.DiskCounters }

func (f *fakeDisk) DiskCounters(context.Context) (map[string]model.DiskCounters, error) {
	return f.counters, nil
}

func TestBytesToHuman(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1K"},
		{1536, "1K"},
		{1048576, "1M"},
		{1073741824, "1G"},
		{3 * 1099511627776, "3T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BytesToHuman(tt.in))
	}
}

func TestPanels_NavigationWraps(t *testing.T) {
	c := NewCPU(&fakeCPU{})
	require.Equal(t, 13, c.PanelCount())
	assert.Equal(t, 0, c.Panel())

	c.PrevPanel()
	assert.Equal(t, 12, c.Panel())
	c.NextPanel()
	assert.Equal(t, 0, c.Panel())

	c.NextPanel()
	c.NextPanel()
	assert.Equal(t, 2, c.Panel())
	c.ResetPanel()
	assert.Equal(t, 0, c.Panel())
}

func TestPanels_FullCycleReturnsFromAnyIndex(t *testing.T) {
	network, err := NewNetwork(context.Background(), &fakeNet{ip: "10.0.0.2"}, "eth0")
	require.NoError(t, err)

	tests := []struct {
		name   string
		screen Screen
		panels int
	}{
		{"cpu", NewCPU(&fakeCPU{}), 13},
		{"network", network, 4},
		{"memory", NewMemory(fakeMem{}), 9},
		{"disk", NewDisk(&fakeDisk{}), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.screen
			require.Equal(t, tt.panels, s.PanelCount())

			for start := 0; start < s.PanelCount(); start++ {
				s.ResetPanel()
				for i := 0; i < start; i++ {
					s.NextPanel()
				}
				require.Equal(t, start, s.Panel())

				for i := 0; i < s.PanelCount(); i++ {
					s.NextPanel()
				}
				assert.Equal(t, start, s.Panel(), "next from %d", start)

				for i := 0; i < s.PanelCount(); i++ {
					s.PrevPanel()
				}
				assert.Equal(t, start, s.Panel(), "prev from %d", start)

				s.NextPanel()
				s.PrevPanel()
				assert.Equal(t, start, s.Panel(), "next then prev from %d", start)
			}
		})
	}
}

func TestCPU_QuadPanelRender(t *testing.T) {
	src := &fakeCPU{}
	c := NewCPU(src)
	c.sample(context.Background())
	c.sample(context.Background())

	cv := &rendertest.Canvas{}
	require.NoError(t, c.Render(cv))
	require.Equal(t, 1, cv.CommitCount())

	frame := cv.Last()
	texts := frame.Texts()
	require.Len(t, texts, 5)
	assert.Equal(t, "CPU", texts[0])
	assert.Equal(t, []string{"10.00%", "20.00%", "30.00%", "40.00%"}, texts[1:])
	assert.Len(t, frame.Rules(), 2)
	assert.Len(t, frame.Borders(), 4)
	assert.Len(t, frame.Patches(), 4)
}

func TestCPU_FirstSampleOnlyInitializes(t *testing.T) {
	c := NewCPU(&fakeCPU{})
	c.sample(context.Background())

	assert.True(t, c.initialized())
	assert.Zero(t, c.percent.Len())
	assert.Zero(t, c.states["user"].Len())

	c.sample(context.Background())
	assert.Equal(t, 1, c.percent.Len())
	assert.Equal(t, 10.0, c.states["user"].Last())
	assert.Equal(t, 100.0, c.states["idle"].Last())
	assert.Equal(t, 40.0, c.cores[3].Last())
}

func TestCPU_PanelHeaders(t *testing.T) {
	c := NewCPU(&fakeCPU{})
	c.sample(context.Background())
	c.sample(context.Background())

	cv := &rendertest.Canvas{}
	want := map[int]string{
		1:  "CPU:42.5%",
		2:  "User:10.00",
		3:  "System:5.00",
		4:  "Idle:100.00",
		12: "Load:1.50",
	}
	for i := 0; i < c.PanelCount(); i++ {
		require.NoError(t, c.Render(cv))
		if h, ok := want[c.Panel()]; ok {
			assert.Equal(t, h, cv.Last().Texts()[0])
		}
		c.NextPanel()
	}
	assert.Equal(t, c.PanelCount(), cv.CommitCount())
}

func TestCPU_SourceFailureIsLoggedAndRetried(t *testing.T) {
	src := &fakeCPU{fail: true}
	log := logger.NewBufferLogger()
	c := NewCPU(src, WithLogger(log))

	c.sample(context.Background())
	assert.False(t, c.initialized())
	assert.True(t, log.HasLevel("warn"))

	src.mu.Lock()
	src.fail = false
	src.mu.Unlock()
	c.sample(context.Background())
	assert.True(t, c.initialized())
}

func TestCPU_CollectStopsOnCancel(t *testing.T) {
	c := NewCPU(&fakeCPU{}, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Collect(ctx) }()

	require.Eventually(t, func() bool { return c.percent.Len() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestNetwork_NoIPv4IsEnvError(t *testing.T) {
	_, err := NewNetwork(context.Background(), &fakeNet{}, "wlan0")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEnv))

	_, err = NewNetwork(context.Background(), &fakeNet{err: stderrors.New("no such interface")}, "eth9")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEnv))
}

func TestNetwork_DirectionMapping(t *testing.T) {
	src := &fakeNet{ip: "192.168.1.20"}
	n, err := NewNetwork(context.Background(), src, "eth0")
	require.NoError(t, err)
	assert.Equal(t, 4, n.PanelCount())

	n.sample(context.Background())
	src.counters = model.NetCounters{
		BytesRecv: 1000, BytesSent: 200,
		PacketsRecv: 10, PacketsSent: 2,
		Errin: 3, Errout: 7,
		Dropin: 1, Dropout: 5,
	}
	n.sample(context.Background())

	assert.Equal(t, 1000.0, n.pairs["bytes"].In.Last())
	assert.Equal(t, 200.0, n.pairs["bytes"].Out.Last())
	assert.Equal(t, 10.0, n.pairs["packets"].In.Last())
	assert.Equal(t, 7.0, n.pairs["errors"].In.Last(), "errors in is fed from errout")
	assert.Equal(t, 3.0, n.pairs["errors"].Out.Last())
	assert.Equal(t, 5.0, n.pairs["dropped"].In.Last(), "dropped in is fed from dropout")
	assert.Equal(t, 1.0, n.pairs["dropped"].Out.Last())

	cv := &rendertest.Canvas{}
	require.NoError(t, n.Render(cv))
	texts := cv.Last().Texts()
	assert.Equal(t, "eth0:192.168.1.20", texts[0])
	assert.Contains(t, texts, "Bytes")
}

func TestMemory_HeadersAndScale(t *testing.T) {
	vm := model.Memory{
		Total:       4 << 30,
		Used:        1 << 30,
		Available:   3 << 30,
		UsedPercent: 25,
		Cached:      512 << 20,
	}
	log := logger.NewBufferLogger()
	m := NewMemory(fakeMem{vm}, WithLogger(log))
	m.sample(context.Background())
	m.sample(context.Background())

	infos := 0
	for _, msg := range log.Messages() {
		if msg.Level == "info" {
			infos++
		}
	}
	assert.Equal(t, 1, infos, "total is announced once")

	used, total := m.Totals()
	assert.Equal(t, float64(1<<30), used)
	assert.Equal(t, float64(4<<30), total)

	cv := &rendertest.Canvas{}
	require.NoError(t, m.Render(cv))
	assert.Equal(t, "Memory:25.0%", cv.Last().Texts()[0])

	m.NextPanel()
	require.NoError(t, m.Render(cv))
	assert.Equal(t, "Used:1G/4G", cv.Last().Texts()[0])
	assert.Equal(t, float64(4<<30), memGauge{m}.Scale(m.entries[1].panel))

	for m.entries[m.Panel()].panel.Measure != "cached" {
		m.NextPanel()
	}
	require.NoError(t, m.Render(cv))
	assert.Equal(t, "Cached:512M/4G", cv.Last().Texts()[0])
}

func TestDisk_DeltasAndDevices(t *testing.T) {
	src := &fakeDisk{counters: map[string]model.DiskCounters{
		"sda": {Name: "sda", ReadBytes: 1000, WriteBytes: 1000, ReadCount: 1, WriteCount: 1},
		"sdb": {Name: "sdb"},
	}}
	d := NewDisk(src)
	d.sample(context.Background())

	src.counters = map[string]model.DiskCounters{
		"sda": {Name: "sda", ReadBytes: 3048, WriteBytes: 1000, ReadCount: 5, WriteCount: 2},
		"sdb": {Name: "sdb", WriteBytes: 4096, WriteCount: 1},
	}
	d.sample(context.Background())

	assert.Equal(t, 2048.0, d.bytes.In.Last())
	assert.Equal(t, 4096.0, d.bytes.Out.Last())
	assert.Equal(t, 4.0, d.ops.In.Last())
	assert.Equal(t, 2.0, d.ops.Out.Last())
	assert.Equal(t, []string{"sda", "sdb"}, d.Devices())

	cv := &rendertest.Canvas{}
	require.NoError(t, d.Render(cv))
	assert.Equal(t, "Disk:2K/4K", cv.Last().Texts()[0])

	d.PrevPanel()
	require.NoError(t, d.Render(cv))
	assert.Equal(t, []string{"Disk:2K/4K", "sda", "sdb"}, cv.Last().Texts())
	assert.Len(t, cv.Last().Bars(), 2)
}

func TestDisk_DevicesCappedAndSorted(t *testing.T) {
	counters := map[string]model.DiskCounters{}
	for _, name := range []string{"sde", "sdc", "sda", "sdd", "sdb"} {
		counters[name] = model.DiskCounters{Name: name}
	}
	d := NewDisk(&fakeDisk{counters: counters})
	d.sample(context.Background())

	assert.Equal(t, []string{"sda", "sdb", "sdc", "sdd"}, d.Devices())
}
