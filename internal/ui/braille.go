package ui

import (
	"image"
	"strings"
)

// Braille cells are 2x4 dots; bit offsets per [row][col] from U+2800.
const brailleBase = '\u2800'

var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// Braille renders a monochrome frame as rows of braille characters, one
// character per 2x4 pixel cell. A pixel is lit at half intensity or more.
func Braille(img *image.Gray) string {
	b := img.Bounds()
	cols := (b.Dx() + 1) / 2
	rows := (b.Dy() + 3) / 4

	var sb strings.Builder
	sb.Grow(rows * (cols*3 + 1))
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < cols; c++ {
			var cell rune
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := b.Min.X+c*2+dx, b.Min.Y+r*4+dy
					if !(image.Point{x, y}.In(b)) {
						continue
					}
					if img.GrayAt(x, y).Y >= 0x80 {
						cell |= 1 << brailleDots[dy][dx]
					}
				}
			}
			sb.WriteRune(brailleBase + cell)
		}
	}
	return sb.String()
}
