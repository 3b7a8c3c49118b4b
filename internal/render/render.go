// Package render turns sample windows into drawing commands on a small
// monochrome surface.
//
// Renderers know nothing about screens. They take a Panel describing the
// geometry and a source value, and discover what the source can provide
// through the capability interfaces below (HeaderSource, ValueSource,
// ScaleSource and friends). An optional capability that is missing falls
// back to a default; a missing required one yields ErrMissingSource.
package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Canvas geometry. Text metrics are those of basicfont.Face7x13, the face
// Frame draws with.
const (
	Width  = 128
	Height = 64

	CharWidth  = 7
	CharHeight = 13
)

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// Color is a monochrome pixel value. None leaves pixels untouched.
type Color int

const (
	None Color = iota
	Black
	White
)

// Surface accepts the primitive drawing commands. Text and lines are
// drawn in White.
type Surface interface {
	Text(at image.Point, s string)
	Line(points []image.Point, width int)
	Rectangle(a, b image.Point, fill, outline Color)
}

// Canvas commits one frame atomically. Draw runs fn against a cleared
// surface and flushes the result exactly once, whether fn fails or not.
type Canvas interface {
	Draw(fn func(Surface) error) error
}

// Renderer draws one panel's worth of data.
type Renderer interface {
	Render(s Surface, p Panel, src any) error
}

// Panel pairs a renderer with a measure. It is immutable after construction.
type Panel struct {
	Renderer  Renderer
	Measure   string
	Name      string
	XStart    int
	XStep     int
	ShowScale bool
}

// ErrMissingSource is returned when a source lacks a required capability.
var ErrMissingSource = errors.New("render: source does not provide required data")

// HeaderSource supplies the header text. Optional; defaults to Panel.Name.
type HeaderSource interface {
	Header(p Panel) string
}

// ValueSource supplies one series, oldest first.
type ValueSource interface {
	Values(p Panel) []float64
}

// PairSource supplies an upward and a downward series.
type PairSource interface {
	Up(p Panel) []float64
	Down(p Panel) []float64
}

// SeriesSource supplies several independent series.
type SeriesSource interface {
	Series(p Panel) [][]float64
}

// KeySource enumerates categorical keys in display order.
type KeySource interface {
	Keys(p Panel) []string
}

// KeyedSource supplies the sub-series of one key.
type KeyedSource interface {
	KeyValues(p Panel, key string) []float64
}

// ScaleSource supplies the value that maps to a full-height bar. Optional.
type ScaleSource interface {
	Scale(p Panel) float64
}

func header(p Panel, src any) string {
	if h, ok := src.(HeaderSource); ok {
		return h.Header(p)
	}
	return p.Name
}

func scale(p Panel, src any, fallback func() float64) float64 {
	if s, ok := src.(ScaleSource); ok {
		return s.Scale(p)
	}
	return fallback()
}

func missing(p Panel, what string) error {
	return fmt.Errorf("%w: panel %q needs %s", ErrMissingSource, p.Name, what)
}

// barHeight scales v into budget pixels, rounding up.
func barHeight(v, full float64, budget int) int {
	if full <= 0 || v <= 0 {
		return 0
	}
	h := int(math.Ceil(float64(budget) * v / full))
	if h > budget {
		h = budget
	}
	return h
}

// drawHeader writes the header line and the rule beneath it.
func drawHeader(s Surface, text string) {
	s.Text(image.Pt(1, 0), text)
	s.Line([]image.Point{{0, 11}, {Width, 11}}, 1)
}

// drawPatch overlays text on an opaque black patch below the header.
func drawPatch(s Surface, text string) {
	patch(s, image.Pt(1, 13), text)
}

// patch blanks the glyph box of text drawn at at, plus a one pixel margin,
// then draws the text on it.
func patch(s Surface, at image.Point, text string) {
	s.Rectangle(at.Sub(image.Pt(1, 1)), at.Add(image.Pt(TextWidth(text), CharHeight)), Black, Black)
	s.Text(at, text)
}

// FormatScale renders a scale value the way the readout patch shows it.
func FormatScale(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
