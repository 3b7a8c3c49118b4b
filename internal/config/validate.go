package config

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

// Validate checks the config and returns the first problem as a CONFIG error.
func Validate(cfg *Config) error {
	switch cfg.Display.Driver {
	case DriverSSD1306, DriverTerminal:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown display driver %q", cfg.Display.Driver),
			fmt.Sprintf("Set display.driver to %q or %q", DriverSSD1306, DriverTerminal))
	}

	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid display size %dx%d", cfg.Display.Width, cfg.Display.Height),
			"Set display.width and display.height, usually 128 and 64")
	}

	if cfg.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			"interval must be positive",
			"Use a duration such as 1s")
	}
	if cfg.Buttons.DebounceTime < 0 {
		return errors.New(errors.ErrConfig,
			"buttons.debounce_time can't be negative",
			"Use 0 to disable debouncing, or a duration such as 200ms")
	}
	if cfg.Buttons.ResetTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"buttons.reset_timeout must be positive",
			"Use a duration such as 3s")
	}

	if cfg.Display.Driver == DriverSSD1306 {
		if err := validatePins(cfg.Buttons); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(cfg.Network.Iface))
	for _, iface := range cfg.Network.Iface {
		if seen[iface] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Interface %s is listed twice", iface),
				"Remove the duplicate from network.iface")
		}
		seen[iface] = true
	}
	return nil
}

func validatePins(b ButtonsConfig) error {
	pins := []struct {
		key string
		pin string
	}{
		{"pin_next", b.PinNext},
		{"pin_previous", b.PinPrevious},
		{"pin_up", b.PinUp},
		{"pin_down", b.PinDown},
		{"pin_reset", b.PinReset},
	}
	used := make(map[string]string, len(pins))
	for _, p := range pins {
		name := strings.TrimSpace(p.pin)
		if name == "" {
			return errors.New(errors.ErrConfig,
				"buttons."+p.key+" is not set",
				"Assign a GPIO pin such as GPIO17")
		}
		if other, ok := used[name]; ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Pin %s is assigned to both buttons.%s and buttons.%s", name, other, p.key),
				"Give every button its own pin")
		}
		used[name] = p.key
	}
	return nil
}
