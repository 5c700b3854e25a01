package giocanvas

import (
	"image"
	"image/color"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func TestCanvasRecordsUntilClear(t *testing.T) {
	c := New()
	surface := chart.NewSurface(c)
	resized, err := surface.Ensure(100, 50, 2)
	require.NoError(t, err)
	require.True(t, resized)
	assert.Equal(t, image.Pt(200, 100), c.BackingSize())
	assert.Equal(t, float32(2), c.scale)

	c.FillPath([]chart.Point{chart.Pt(0, 50), chart.Pt(0, 10), chart.Pt(100, 20), chart.Pt(100, 50)}, chart.Gradient{To: chart.Pt(0, 50), FromColor: red})
	c.StrokePath([]chart.Point{chart.Pt(0, 10), chart.Pt(100, 20)}, chart.Stroke{Color: red, Width: 2, Round: true})
	c.StrokePath([]chart.Point{chart.Pt(50, 0), chart.Pt(50, 50)}, chart.Stroke{Color: red, Width: 1, Dash: []float64{4, 4}})
	c.FillCircle(chart.Pt(50, 15), 4, red, chart.Stroke{Color: color.NRGBA{A: 0xff}, Width: 2})
	assert.Len(t, c.calls, 4)

	c.Clear()
	assert.Empty(t, c.calls)
}

func TestCanvasIgnoresDegenerateShapes(t *testing.T) {
	c := New()
	c.Resize(image.Pt(10, 10))
	c.FillPath([]chart.Point{chart.Pt(0, 0), chart.Pt(1, 1)}, chart.Gradient{})
	c.StrokePath([]chart.Point{chart.Pt(0, 0)}, chart.Stroke{Width: 1})
	c.StrokePath([]chart.Point{chart.Pt(0, 0), chart.Pt(1, 1)}, chart.Stroke{})
	c.FillCircle(chart.Pt(1, 1), 0, red, chart.Stroke{})
	assert.Empty(t, c.calls)
}

func TestCanvasResizeDiscardsContent(t *testing.T) {
	c := New()
	c.Resize(image.Pt(10, 10))
	c.SetScale(2)
	c.StrokePath([]chart.Point{chart.Pt(0, 0), chart.Pt(1, 1)}, chart.Stroke{Width: 1})
	c.Resize(image.Pt(20, 20))
	assert.Empty(t, c.calls)
	assert.Equal(t, float32(1), c.scale)
}

func TestCanvasLayout(t *testing.T) {
	c := New()
	ch := chart.New(c, chart.WithRedrawDelay(0))
	ch.SetHistory([]chart.HistoryPoint{
		{NAV: decimal.RequireFromString("1.00")},
		{NAV: decimal.RequireFromString("1.10")},
		{NAV: decimal.RequireFromString("1.05")},
	})
	_, err := ch.Layout(chart.Geometry{Width: 60, Height: 30, Ratio: 1.5})
	require.NoError(t, err)
	// Fill and line.
	assert.Len(t, c.calls, 2)

	gtx := layout.Context{
		Ops:         new(op.Ops),
		Constraints: layout.Exact(image.Pt(90, 45)),
	}
	dims := c.Layout(gtx)
	assert.Equal(t, image.Pt(90, 45), dims.Size)
}
