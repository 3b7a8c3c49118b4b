package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DriverSSD1306, cfg.Display.Driver)
	assert.Equal(t, 3*time.Second, cfg.Buttons.ResetTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Buttons.DebounceTime)
	assert.Equal(t, []string{"eth0"}, cfg.Network.Iface)
	assert.NoError(t, Validate(cfg))
}

func TestLoadPaths_NoFilesGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadPaths([]string{filepath.Join(dir, "missing.yaml")}, "")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Buttons, cfg.Buttons)
	assert.Equal(t, def.Display, cfg.Display)
	assert.Equal(t, def.Network, cfg.Network)
	assert.Equal(t, def.Interval, cfg.Interval)
	assert.Empty(t, cfg.Files)
}

func TestLoadPaths_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	system := writeFile(t, dir, "system.yaml", `
buttons:
  pin_next: 5
  debounce_time: 0.3
display:
  driver: terminal
network:
  iface: eth0, wlan0
`)
	user := writeFile(t, dir, "user.yaml", `
buttons:
  reset_timeout: 5s
disk:
  enabled: true
`)
	explicit := writeFile(t, dir, "explicit.yaml", `
display:
  driver: ssd1306
  rotated: true
`)

	cfg, err := LoadPaths([]string{system, user}, explicit)
	require.NoError(t, err)

	assert.Equal(t, "5", cfg.Buttons.PinNext)
	assert.Equal(t, "GPIO22", cfg.Buttons.PinPrevious, "unset keys keep defaults")
	assert.Equal(t, 300*time.Millisecond, cfg.Buttons.DebounceTime)
	assert.Equal(t, 5*time.Second, cfg.Buttons.ResetTimeout)
	assert.Equal(t, DriverSSD1306, cfg.Display.Driver, "explicit file wins")
	assert.True(t, cfg.Display.Rotated)
	assert.True(t, cfg.Disk.Enabled)
	assert.Equal(t, []string{"eth0", "wlan0"}, cfg.Network.Iface)
	assert.Equal(t, []string{system, user, explicit}, cfg.Files)
}

func TestLoadPaths_YAMLInterfaceList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", `
network:
  iface:
    - wlan0
    - usb0
`)
	cfg, err := LoadPaths(nil, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"wlan0", "usb0"}, cfg.Network.Iface)
}

func TestLoadPaths_EnvOverrides(t *testing.T) {
	t.Setenv("PIMONITOR_DISPLAY_DRIVER", "terminal")
	t.Setenv("PIMONITOR_INTERVAL", "2s")
	t.Setenv("PIMONITOR_NETWORK_IFACE", "wlan0,eth1")

	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", "display:\n  driver: ssd1306\n")

	cfg, err := LoadPaths(nil, path)
	require.NoError(t, err)
	assert.Equal(t, DriverTerminal, cfg.Display.Driver)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, []string{"wlan0", "eth1"}, cfg.Network.Iface)
}

func TestLoadPaths_MissingExplicit(t *testing.T) {
	_, err := LoadPaths(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadPaths_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "display: [unclosed\n")
	_, err := LoadPaths(nil, path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadPaths_BadDuration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", "interval: soon\n")
	_, err := LoadPaths(nil, path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		in   any
		want time.Duration
	}{
		{nil, 0},
		{time.Second, time.Second},
		{2, 2 * time.Second},
		{0.25, 250 * time.Millisecond},
		{"0.5", 500 * time.Millisecond},
		{"150ms", 150 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := seconds(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := seconds([]int{1})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"terminal without pins", func(c *Config) {
			c.Display.Driver = DriverTerminal
			c.Buttons.PinNext = ""
		}, true},
		{"unknown driver", func(c *Config) { c.Display.Driver = "sh1106" }, false},
		{"zero size", func(c *Config) { c.Display.Width = 0 }, false},
		{"zero interval", func(c *Config) { c.Interval = 0 }, false},
		{"negative debounce", func(c *Config) { c.Buttons.DebounceTime = -time.Millisecond }, false},
		{"zero debounce", func(c *Config) { c.Buttons.DebounceTime = 0 }, true},
		{"zero reset timeout", func(c *Config) { c.Buttons.ResetTimeout = 0 }, false},
		{"missing pin", func(c *Config) { c.Buttons.PinUp = "" }, false},
		{"shared pin", func(c *Config) { c.Buttons.PinDown = c.Buttons.PinUp }, false},
		{"duplicate iface", func(c *Config) { c.Network.Iface = []string{"eth0", "eth0"} }, false},
		{"no ifaces", func(c *Config) { c.Network.Iface = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}
