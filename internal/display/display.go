// Package display commits rendered frames to a physical or simulated
// monochrome panel.
package display

import (
	"image"
	"sync"

	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// Driver pushes a finished frame to the panel.
type Driver interface {
	Flush(img *image.Gray) error
	Close() error
}

// Canvas is a render.Canvas over an in-memory frame. Each Draw clears the
// frame, lets the caller draw, and flushes exactly once.
type Canvas struct {
	mu     sync.Mutex
	frame  *render.Frame
	driver Driver
}

// NewCanvas creates a canvas of the given size flushing to driver.
func NewCanvas(driver Driver, width, height int) *Canvas {
	if width <= 0 {
		width = render.Width
	}
	if height <= 0 {
		height = render.Height
	}
	return &Canvas{
		frame:  render.NewFrame(width, height),
		driver: driver,
	}
}

// Draw runs fn against a blank frame and flushes the result. The frame is
// flushed even when fn fails; fn's error takes precedence over the flush
// error.
func (c *Canvas) Draw(fn func(render.Surface) error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame.Clear()
	defer func() {
		if ferr := c.driver.Flush(c.frame.Image()); ferr != nil && err == nil {
			err = ferr
		}
	}()
	return fn(c.frame)
}

// Close releases the driver.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.driver.Close()
}
