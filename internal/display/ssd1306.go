package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

// SSD1306Address is the only I2C address the periph driver talks to.
const SSD1306Address = 0x3C

// SSD1306Options selects the bus and panel geometry.
type SSD1306Options struct {
	// Bus is the periph I2C bus name; empty selects the first bus.
	Bus     string
	Width   int
	Height  int
	Rotated bool
}

// SSD1306 drives a 128x64 OLED over I2C.
type SSD1306 struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenSSD1306 initializes the host drivers and opens the panel.
func OpenSSD1306(opts SSD1306Options) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDisplay,
			"Failed to initialize host drivers",
			"Run on a Linux board with I2C enabled, or use --driver terminal")
	}

	bus, err := i2creg.Open(opts.Bus)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDisplay,
			fmt.Sprintf("Failed to open I2C bus %q", opts.Bus),
			"Enable I2C (raspi-config) and check display.bus")
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{
		W:       opts.Width,
		H:       opts.Height,
		Rotated: opts.Rotated,
	})
	if err != nil {
		bus.Close()
		return nil, errors.WrapWithCode(err, errors.ErrDisplay,
			"Failed to initialize SSD1306 display",
			fmt.Sprintf("Check wiring and that the panel answers at 0x%02X (i2cdetect)", SSD1306Address))
	}
	return &SSD1306{bus: bus, dev: dev}, nil
}

func (d *SSD1306) Flush(img *image.Gray) error {
	return d.dev.Draw(d.dev.Bounds(), img, image.Point{})
}

// Close blanks the panel and releases the bus.
func (d *SSD1306) Close() error {
	herr := d.dev.Halt()
	if err := d.bus.Close(); err != nil {
		return err
	}
	return herr
}
