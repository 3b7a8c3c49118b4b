package render

import (
	"image"

	"github.com/Dicklesworthstone/pimonitor/internal/metric"
)

const (
	updownDivider = 38
	updownBudget  = 25
)

// UpDown draws two series against one dividing rule: the up series grows
// upward and the down series downward, sharing a scale so paired in/out
// flows can be compared. The default scale is max(max(up), max(down), MinScale).
// With ShowScale the patch shows the panel name.
type UpDown struct {
	// MinScale defaults to 1024.
	MinScale float64
}

func (r UpDown) Render(s Surface, p Panel, src any) error {
	ps, ok := src.(PairSource)
	if !ok {
		return missing(p, "up/down values")
	}
	up, down := ps.Up(p), ps.Down(p)

	drawHeader(s, header(p, src))
	s.Line([]image.Point{{2, updownDivider}, {Width - 2, updownDivider}}, 1)

	full := scale(p, src, func() float64 {
		floor := r.MinScale
		if floor <= 0 {
			floor = 1024
		}
		m := metric.Max(up)
		if d := metric.Max(down); d > m {
			m = d
		}
		if m < floor {
			m = floor
		}
		return m
	})

	x := p.XStart
	for i := len(up) - 1; i >= 0; i-- {
		if h := barHeight(up[i], full, updownBudget); h > 0 {
			s.Rectangle(image.Pt(x, updownDivider), image.Pt(x-barWidth, updownDivider-h), White, None)
		}
		x += p.XStep
	}

	x = p.XStart
	for i := len(down) - 1; i >= 0; i-- {
		if h := barHeight(down[i], full, updownBudget); h > 0 {
			s.Rectangle(image.Pt(x, updownDivider), image.Pt(x-barWidth, updownDivider+h), White, None)
		}
		x += p.XStep
	}

	if p.ShowScale {
		drawPatch(s, p.Name)
	}
	return nil
}
