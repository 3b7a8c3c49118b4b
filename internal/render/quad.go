package render

import (
	"fmt"
	"image"
)

const (
	quadCount  = 4
	quadWidth  = 62
	quadHeight = 24
	quadTop    = 12
	quadGap    = 3
	quadBudget = 22
)

// QuadCPU draws four bordered sub-plots, one per core, as vertical line
// traces of percentages (fixed 0-100 scale). Each sub-plot carries the
// newest value on its own patch. Cores beyond the fourth are ignored and
// missing cores leave an empty plot.
type QuadCPU struct{}

func (QuadCPU) Render(s Surface, p Panel, src any) error {
	ss, ok := src.(SeriesSource)
	if !ok {
		return missing(p, "per-core series")
	}
	series := ss.Series(p)

	drawHeader(s, header(p, src))
	s.Line([]image.Point{{0, Height - 1}, {Width, Height - 1}}, 1)

	for i := 0; i < quadCount; i++ {
		x0 := (i % 2) * (quadWidth + quadGap)
		top := quadTop + (i/2)*(quadHeight+2)
		base := top + quadHeight

		s.Rectangle(image.Pt(x0, top), image.Pt(x0+quadWidth, base), None, White)

		var values []float64
		if i < len(series) {
			values = series[i]
		}

		x := x0 + quadWidth - 1
		for j := len(values) - 1; j >= 0 && x > x0; j-- {
			if h := barHeight(values[j], 100, quadBudget); h > 0 {
				s.Line([]image.Point{{x, base}, {x, base - h}}, 1)
			}
			x--
		}

		var last float64
		if len(values) > 0 {
			last = values[len(values)-1]
		}
		text := fmt.Sprintf("%.2f%%", last)
		patch(s, image.Pt(x0+2, top+2), text)
	}
	return nil
}
