package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

const (
	// EnvPrefix prefixes every environment override, e.g. PIMONITOR_DISPLAY_DRIVER.
	EnvPrefix = "PIMONITOR"
	// SystemConfigFile is merged first.
	SystemConfigFile = "/usr/local/pi-monitor/etc/config.yaml"
	// UserConfigDir holds the per-user config.yaml, relative to home.
	UserConfigDir = ".pi-monitor"

	DriverSSD1306  = "ssd1306"
	DriverTerminal = "terminal"
)

// Config carries runtime options for pimonitor.
type Config struct {
	Buttons  ButtonsConfig `yaml:"buttons" mapstructure:"buttons"`
	Display  DisplayConfig `yaml:"display" mapstructure:"display"`
	Network  NetworkConfig `yaml:"network" mapstructure:"network"`
	Disk     DiskConfig    `yaml:"disk" mapstructure:"disk"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	Debug    bool          `yaml:"debug" mapstructure:"debug"`

	// Files lists the config files that were merged, in order.
	Files []string `yaml:"-" mapstructure:"-"`
}

// ButtonsConfig maps channels to GPIO pins. Pins are periph names
// ("GPIO17") or BCM numbers ("17").
type ButtonsConfig struct {
	PinNext      string        `yaml:"pin_next" mapstructure:"pin_next"`
	PinPrevious  string        `yaml:"pin_previous" mapstructure:"pin_previous"`
	PinUp        string        `yaml:"pin_up" mapstructure:"pin_up"`
	PinDown      string        `yaml:"pin_down" mapstructure:"pin_down"`
	PinReset     string        `yaml:"pin_reset" mapstructure:"pin_reset"`
	ResetTimeout time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout"`
	DebounceTime time.Duration `yaml:"debounce_time" mapstructure:"debounce_time"`
}

// DisplayConfig selects the output.
type DisplayConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"`
	Bus     string `yaml:"bus" mapstructure:"bus"`
	Width   int    `yaml:"width" mapstructure:"width"`
	Height  int    `yaml:"height" mapstructure:"height"`
	Rotated bool   `yaml:"rotated" mapstructure:"rotated"`
}

// NetworkConfig lists the interfaces that get a screen each.
type NetworkConfig struct {
	Iface []string `yaml:"iface" mapstructure:"iface"`
}

// DiskConfig toggles the disk screen.
type DiskConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Default returns the configuration of a stock device.
func Default() *Config {
	return &Config{
		Buttons: ButtonsConfig{
			PinNext:      "GPIO17",
			PinPrevious:  "GPIO22",
			PinUp:        "GPIO23",
			PinDown:      "GPIO24",
			PinReset:     "GPIO27",
			ResetTimeout: 3 * time.Second,
			DebounceTime: 200 * time.Millisecond,
		},
		Display: DisplayConfig{
			Driver: DriverSSD1306,
			Width:  128,
			Height: 64,
		},
		Network:  NetworkConfig{Iface: []string{"eth0"}},
		Interval: time.Second,
	}
}

// SearchPaths returns the optional config files in merge order.
func SearchPaths() []string {
	paths := []string{SystemConfigFile}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserConfigDir, "config.yaml"))
	}
	return paths
}

// Load merges the search paths, then explicit (if set), then environment
// overrides.
func Load(explicit string) (*Config, error) {
	return LoadPaths(SearchPaths(), explicit)
}

// LoadPaths merges every existing file of optional in order, then the
// required explicit file.
func LoadPaths(optional []string, explicit string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	var files []string
	for _, path := range optional {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := merge(v, path); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path passed to --config")
		}
		if err := merge(v, explicit); err != nil {
			return nil, err
		}
		files = append(files, explicit)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"buttons.reset_timeout", "buttons.debounce_time", "interval"} {
		d, err := seconds(v.Get(key))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid duration for "+key,
				"Use a duration such as 200ms or 3s, or a number of seconds")
		}
		v.Set(key, d)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax of "+strings.Join(files, ", "))
	}
	cfg.Network.Iface = splitList(cfg.Network.Iface)
	cfg.Files = files
	return cfg, nil
}

func merge(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("buttons.pin_next", d.Buttons.PinNext)
	v.SetDefault("buttons.pin_previous", d.Buttons.PinPrevious)
	v.SetDefault("buttons.pin_up", d.Buttons.PinUp)
	v.SetDefault("buttons.pin_down", d.Buttons.PinDown)
	v.SetDefault("buttons.pin_reset", d.Buttons.PinReset)
	v.SetDefault("buttons.reset_timeout", d.Buttons.ResetTimeout)
	v.SetDefault("buttons.debounce_time", d.Buttons.DebounceTime)
	v.SetDefault("display.driver", d.Display.Driver)
	v.SetDefault("display.bus", d.Display.Bus)
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.rotated", d.Display.Rotated)
	v.SetDefault("network.iface", d.Network.Iface)
	v.SetDefault("disk.enabled", d.Disk.Enabled)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("debug", d.Debug)
}

// seconds accepts a duration, a Go duration string, or a plain number of
// seconds as written by older INI-style configs.
func seconds(raw any) (time.Duration, error) {
	switch x := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return x, nil
	case int:
		return time.Duration(x) * time.Second, nil
	case int64:
		return time.Duration(x) * time.Second, nil
	case float64:
		return time.Duration(math.Round(x * float64(time.Second))), nil
	case string:
		s := strings.TrimSpace(x)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(math.Round(f * float64(time.Second))), nil
		}
		return time.ParseDuration(s)
	}
	return 0, fmt.Errorf("unsupported duration value %v (%T)", raw, raw)
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
