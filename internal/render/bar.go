package render

import (
	"image"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
)

const (
	barBaseline = 63
	barBudget   = 50
	barWidth    = 2
)

// Bar draws one vertical bar per sample, newest first, moving the cursor
// by Panel.XStep. The default scale is max(window max, 100).
type Bar struct{}

func (Bar) Render(s Surface, p Panel, src any) error {
	vs, ok := src.(ValueSource)
	if !ok {
		return missing(p, "values")
	}
	values := vs.Values(p)

	drawHeader(s, header(p, src))
	s.Line([]image.Point{{2, barBaseline}, {Width - 2, barBaseline}}, 1)

	full := scale(p, src, func() float64 {
		m := metric.Max(values)
		if m < 100 {
			m = 100
		}
		return m
	})

	x := p.XStart
	for i := len(values) - 1; i >= 0; i-- {
		h := barHeight(values[i], full, barBudget)
		if h > 0 {
			s.Rectangle(image.Pt(x, barBaseline), image.Pt(x-barWidth, barBaseline-h), White, None)
		}
		x += p.XStep
	}

	if p.ShowScale {
		drawPatch(s, FormatScale(full))
	}
	return nil
}
