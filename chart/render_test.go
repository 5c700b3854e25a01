package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySurface(t *testing.T, w, h, ratio float64) (*Surface, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := NewSurface(rec)
	_, err := s.Ensure(w, h, ratio)
	require.NoError(t, err)
	rec.reset()
	return s, rec
}

func TestDrawBaseFrameOrder(t *testing.T) {
	s, rec := readySurface(t, 100, 50, 2)
	slice := ascending(5)
	sc := BuildScales(slice, 100, 50)
	st := DefaultStyle(defaultAccent)
	DrawBaseFrame(s, slice, sc, st)

	require.Equal(t, []string{"clear", "fill", "stroke"}, rec.ops())

	area := rec.calls[1]
	require.Len(t, area.path, len(slice)+2)
	assert.Equal(t, Pt(0, 50), area.path[0])
	assert.Equal(t, Pt(100, 50), area.path[len(area.path)-1])
	assert.Equal(t, st.Fill, area.fill.FromColor)
	assert.Zero(t, area.fill.ToColor.A)
	assert.Equal(t, 0.0, area.fill.From.Y)
	assert.Equal(t, 50.0, area.fill.To.Y)

	line := rec.calls[2]
	require.Len(t, line.path, len(slice))
	assert.True(t, line.stroke.Round)
	assert.Equal(t, st.Accent, line.stroke.Color)
	assert.Equal(t, 2.0, line.stroke.Width)
	for i, p := range line.path {
		assert.Equal(t, sc.X(i), p.X)
		assert.Equal(t, sc.Y(slice[i].Value()), p.Y)
	}
}

func TestDrawBaseFrameDegenerate(t *testing.T) {
	for _, n := range []int{0, 1} {
		s, rec := readySurface(t, 100, 50, 1)
		slice := ascending(n)
		DrawBaseFrame(s, slice, BuildScales(slice, 100, 50), DefaultStyle(defaultAccent))
		assert.Equal(t, []string{"clear"}, rec.ops(), "n=%d", n)
	}
}

func TestDrawOverlay(t *testing.T) {
	s, rec := readySurface(t, 100, 50, 1)
	slice := ascending(5)
	sc := BuildScales(slice, 100, 50)
	st := DefaultStyle(defaultAccent)
	DrawOverlay(s, slice, sc, st, 2)

	require.Equal(t, []string{"stroke", "circle"}, rec.ops())
	guide := rec.calls[0]
	assert.Equal(t, []Point{Pt(50, 0), Pt(50, 50)}, guide.path)
	assert.Equal(t, []float64{4, 4}, guide.stroke.Dash)
	assert.Equal(t, st.Guide, guide.stroke.Color)

	marker := rec.calls[1]
	assert.Equal(t, Pt(50, sc.Y(slice[2].Value())), marker.center)
	assert.Equal(t, 4.0, marker.radius)
	assert.Equal(t, st.Accent, marker.color)
	assert.Equal(t, white, marker.stroke.Color)
}

func TestDashes(t *testing.T) {
	got := Dashes(Pt(0, 0), Pt(0, 20), []float64{4, 4})
	assert.Equal(t, [][2]Point{
		{Pt(0, 0), Pt(0, 4)},
		{Pt(0, 8), Pt(0, 12)},
		{Pt(0, 16), Pt(0, 20)},
	}, got)

	solid := Dashes(Pt(1, 1), Pt(5, 1), nil)
	assert.Equal(t, [][2]Point{{Pt(1, 1), Pt(5, 1)}}, solid)
}
