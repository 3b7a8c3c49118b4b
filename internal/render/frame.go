package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	on  = color.Gray{Y: 0xff}
	off = color.Gray{Y: 0x00}
)

// condensed is Face7x13 without the blank column between glyphs. Headers
// such as "wlan0:192.168.100.123" only fit the frame this way.
var condensed = &basicfont.Face{
	Advance: basicfont.Face7x13.Width,
	Width:   basicfont.Face7x13.Width,
	Height:  basicfont.Face7x13.Height,
	Ascent:  basicfont.Face7x13.Ascent,
	Descent: basicfont.Face7x13.Descent,
	Mask:    basicfont.Face7x13.Mask,
	Ranges:  basicfont.Face7x13.Ranges,
}

// Frame is an in-memory monochrome Surface backed by an image.Gray.
// Coordinates outside the frame are clipped.
type Frame struct {
	img       *image.Gray
	face      font.Face
	condensed font.Face
}

// NewFrame creates a blank frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		img:       image.NewGray(image.Rect(0, 0, width, height)),
		face:      basicfont.Face7x13,
		condensed: condensed,
	}
}

// Image returns the backing image. Callers must not retain it across frames.
func (f *Frame) Image() *image.Gray { return f.img }

// Clear blanks every pixel.
func (f *Frame) Clear() {
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(off), image.Point{}, draw.Src)
}

// Text draws s with its top-left corner at at. Text that would run past
// the right edge is drawn condensed.
func (f *Frame) Text(at image.Point, s string) {
	face := f.face
	if at.X+font.MeasureString(face, s).Ceil() > f.img.Bounds().Max.X {
		face = f.condensed
	}
	d := &font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(on),
		Face: face,
		Dot:  fixed.P(at.X, at.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Line draws a polyline through points.
func (f *Frame) Line(points []image.Point, width int) {
	if width < 1 {
		width = 1
	}
	for i := 1; i < len(points); i++ {
		f.segment(points[i-1], points[i], width)
	}
	if len(points) == 1 {
		f.set(points[0].X, points[0].Y, on)
	}
}

// segment is Bresenham with a square pen of the given width.
func (f *Frame) segment(a, b image.Point, width int) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	x, y := a.X, a.Y
	for {
		for ox := 0; ox < width; ox++ {
			for oy := 0; oy < width; oy++ {
				f.set(x+ox-width/2, y+oy-width/2, on)
			}
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// Rectangle fills and/or outlines the box spanned by corners a and b,
// both inclusive, in either order.
func (f *Frame) Rectangle(a, b image.Point, fill, outline Color) {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	if fill != None {
		c := gray(fill)
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				f.set(x, y, c)
			}
		}
	}
	if outline != None {
		c := gray(outline)
		for x := r.Min.X; x <= r.Max.X; x++ {
			f.set(x, r.Min.Y, c)
			f.set(x, r.Max.Y, c)
		}
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			f.set(r.Min.X, y, c)
			f.set(r.Max.X, y, c)
		}
	}
}

// Lit reports whether the pixel at (x, y) is on.
func (f *Frame) Lit(x, y int) bool {
	if !(image.Point{x, y}.In(f.img.Bounds())) {
		return false
	}
	return f.img.GrayAt(x, y).Y >= 0x80
}

func (f *Frame) set(x, y int, c color.Gray) {
	if !(image.Point{x, y}.In(f.img.Bounds())) {
		return
	}
	f.img.SetGray(x, y, c)
}

func gray(c Color) color.Gray {
	if c == White {
		return on
	}
	return off
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
