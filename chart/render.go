package chart

import "math"

// DrawBaseFrame repaints the whole surface with the gradient area and the
// line for slice. Anything previously drawn, including an interaction
// overlay, is erased first.
func DrawBaseFrame(s *Surface, slice []HistoryPoint, sc Scales, st Style) {
	c := s.canvas
	c.Clear()
	if len(slice) < 2 || !sc.Valid() {
		return
	}
	floor := sc.Height

	line := make([]Point, len(slice))
	for i, p := range slice {
		line[i] = Pt(sc.X(i), sc.Y(p.Value()))
	}

	area := make([]Point, 0, len(line)+2)
	area = append(area, Pt(line[0].X, floor))
	area = append(area, line...)
	area = append(area, Pt(line[len(line)-1].X, floor))
	transparent := st.Fill
	transparent.A = 0
	c.FillPath(area, Gradient{
		From:      Pt(0, 0),
		To:        Pt(0, floor),
		FromColor: st.Fill,
		ToColor:   transparent,
	})

	c.StrokePath(line, Stroke{
		Color: st.Accent,
		Width: st.LineWidth,
		Round: true,
	})
}

// DrawOverlay draws the scrub guide and marker for index on top of the
// current frame. Callers redraw the base frame first.
func DrawOverlay(s *Surface, slice []HistoryPoint, sc Scales, st Style, index int) {
	if index < 0 || index >= len(slice) || !sc.Valid() {
		return
	}
	c := s.canvas
	x := sc.X(index)
	y := sc.Y(slice[index].Value())
	c.StrokePath([]Point{Pt(x, 0), Pt(x, sc.Height)}, Stroke{
		Color: st.Guide,
		Width: st.GuideWidth,
		Dash:  st.GuideDash,
	})
	c.FillCircle(Pt(x, y), st.MarkerRadius, st.Accent, Stroke{
		Color: white,
		Width: st.MarkerRing,
	})
}

// Dashes splits the segment a→b into the "on" pieces of the dash pattern.
// Canvases without native dash support stroke each piece separately.
func Dashes(a, b Point, pattern []float64) [][2]Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if len(pattern) == 0 || length == 0 {
		return [][2]Point{{a, b}}
	}
	var total float64
	for _, d := range pattern {
		total += d
	}
	if total <= 0 {
		return [][2]Point{{a, b}}
	}
	ux, uy := dx/length, dy/length
	var out [][2]Point
	pos := 0.0
	for i := 0; pos < length; i++ {
		seg := pattern[i%len(pattern)]
		end := min(pos+seg, length)
		if i%2 == 0 {
			out = append(out, [2]Point{
				Pt(a.X+ux*pos, a.Y+uy*pos),
				Pt(a.X+ux*end, a.Y+uy*end),
			})
		}
		pos = end
	}
	return out
}
