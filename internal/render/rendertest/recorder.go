// Package rendertest provides a recording Surface and Canvas for tests.
package rendertest

import (
	"image"
	"sync"

	"github.com/Dicklesworthstone/pimonitor/internal/render"
)

// Op names recorded by Recorder.
const (
	OpText      = "text"
	OpLine      = "line"
	OpRectangle = "rectangle"
)

// Call is one recorded drawing command.
type Call struct {
	Op      string
	At      image.Point
	Text    string
	Points  []image.Point
	Width   int
	A, B    image.Point
	Fill    render.Color
	Outline render.Color
}

// Recorder is a Surface that records every command.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) Text(at image.Point, s string) {
	r.Calls = append(r.Calls, Call{Op: OpText, At: at, Text: s})
}

func (r *Recorder) Line(points []image.Point, width int) {
	pts := append([]image.Point(nil), points...)
	r.Calls = append(r.Calls, Call{Op: OpLine, Points: pts, Width: width})
}

func (r *Recorder) Rectangle(a, b image.Point, fill, outline render.Color) {
	r.Calls = append(r.Calls, Call{Op: OpRectangle, A: a, B: b, Fill: fill, Outline: outline})
}

// Texts returns the recorded text strings in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Calls {
		if c.Op == OpText {
			out = append(out, c.Text)
		}
	}
	return out
}

// Filter returns the calls matching keep.
func (r *Recorder) Filter(keep func(Call) bool) []Call {
	var out []Call
	for _, c := range r.Calls {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Rules returns horizontal lines spanning most of the canvas width.
func (r *Recorder) Rules() []Call {
	return r.Filter(func(c Call) bool {
		if c.Op != OpLine || len(c.Points) != 2 {
			return false
		}
		a, b := c.Points[0], c.Points[1]
		return a.Y == b.Y && abs(b.X-a.X) >= render.Width-4
	})
}

// Patches returns opaque black rectangles.
func (r *Recorder) Patches() []Call {
	return r.Filter(func(c Call) bool {
		return c.Op == OpRectangle && c.Fill == render.Black
	})
}

// Bars returns white filled rectangles.
func (r *Recorder) Bars() []Call {
	return r.Filter(func(c Call) bool {
		return c.Op == OpRectangle && c.Fill == render.White
	})
}

// Borders returns outlined, unfilled rectangles.
func (r *Recorder) Borders() []Call {
	return r.Filter(func(c Call) bool {
		return c.Op == OpRectangle && c.Fill == render.None && c.Outline == render.White
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Canvas is a render.Canvas that records each committed frame.
type Canvas struct {
	mu      sync.Mutex
	Frames  []*Recorder
	Commits int
	// Err, when set, is returned by every Draw after the frame commits.
	Err error
}

func (c *Canvas) Draw(fn func(render.Surface) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := &Recorder{}
	err := fn(rec)
	c.Frames = append(c.Frames, rec)
	c.Commits++
	if err != nil {
		return err
	}
	return c.Err
}

// CommitCount returns the number of committed frames.
func (c *Canvas) CommitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Commits
}

// Last returns the most recent frame, or nil.
func (c *Canvas) Last() *Recorder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}
