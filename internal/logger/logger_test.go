package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{name: "logs when PIMONITOR_DEBUG is set", envValue: "1", expectLog: true},
		{name: "silent when PIMONITOR_DEBUG is empty", envValue: "", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PIMONITOR_DEBUG", tt.envValue)
			buf := captureLog(t)

			NewEnvLogger("[cpu]").Debug("tick %d", 3)

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[cpu] DEBUG: tick 3")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestDebugLogger_AlwaysLogs(t *testing.T) {
	t.Setenv("PIMONITOR_DEBUG", "")
	buf := captureLog(t)

	NewDebugLogger("[monitor]").Debug("screen %d", 2)

	assert.Contains(t, buf.String(), "[monitor] DEBUG: screen 2")
}

func TestEnvLogger_Levels(t *testing.T) {
	buf := captureLog(t)
	l := NewEnvLogger("[net]")

	l.Info("up")
	l.Warn("slow")
	l.Error("down")

	out := buf.String()
	assert.Contains(t, out, "[net] up")
	assert.Contains(t, out, "[net] WARN: slow")
	assert.Contains(t, out, "[net] ERROR: down")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("d %s", "x")
	l.Warn("w")

	msgs := l.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, LogMessage{Level: "debug", Message: "d x"}, msgs[0])
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	l.Clear()
	assert.Empty(t, l.Messages())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Info("worker %d", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Messages(), 10)
}

func TestNoop(t *testing.T) {
	buf := captureLog(t)
	l := Noop()
	l.Info("nothing")
	l.Error("nothing")
	assert.Empty(t, buf.String())
}
