package render

import (
	"image"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
)

const (
	labelBaseline = Height - 1 - 10
	labelBudget   = 42
)

// LabeledBar draws one bar per key rather than per sample. A key's value
// is the sum of its sub-series; the key text sits under its bar. The
// default scale is 100.
type LabeledBar struct {
	// BarWidth defaults to 6 pixels.
	BarWidth int
}

func (r LabeledBar) Render(s Surface, p Panel, src any) error {
	ks, ok := src.(KeySource)
	if !ok {
		return missing(p, "keys")
	}
	kv, ok := src.(KeyedSource)
	if !ok {
		return missing(p, "keyed values")
	}

	drawHeader(s, header(p, src))
	s.Line([]image.Point{{0, labelBaseline}, {Width, labelBaseline}}, 1)

	full := scale(p, src, func() float64 { return 100 })

	width := r.BarWidth
	if width <= 0 {
		width = 6
	}
	half := width / 2

	x := p.XStart
	for _, key := range ks.Keys(p) {
		h := barHeight(metric.Sum(kv.KeyValues(p, key)), full, labelBudget)
		mid := x - 1 + (CharWidth*len(key))/2
		s.Text(image.Pt(x, labelBaseline), key)
		if h > 0 {
			s.Rectangle(image.Pt(mid-half, labelBaseline), image.Pt(mid+half, labelBaseline-h), White, None)
		}
		x += p.XStep
	}

	if p.ShowScale {
		drawPatch(s, FormatScale(full))
	}
	return nil
}
