package sampler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
	}{
		{"192.168.1.10/24", "192.168.1.10"},
		{"10.0.0.1", "10.0.0.1"},
		{"fe80::1/64", ""},
		{"::1", ""},
		{"garbage", ""},
		{"300.1.1.1/24", ""},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseIPv4(tt.addr))
		})
	}
}

func TestSamplerReadsHost(t *testing.T) {
	if testing.Short() {
		t.Skip("reads live host metrics")
	}
	s := New()
	ctx := context.Background()

	vm, err := s.VirtualMemory(ctx)
	require.NoError(t, err)
	assert.Greater(t, vm.Total, uint64(0))

	times, err := s.CPUTimes(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, times.Idle, 0.0)

	_, err = s.NetCounters(ctx, "definitely-not-an-iface0")
	assert.Error(t, err)
}
