package main

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/op"
	"gioui.org/op/clip"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/lanseria/fund-investment-assistant-mp/giocanvas"
)

// ChartWidget hosts a chart.Chart in a Gio layout and feeds it pointer
// events. The chart works in Dp; the canvas backing store is in pixels.
type ChartWidget struct {
	*chart.Chart
	canvas *giocanvas.Canvas
	// pxPerDp is the scale of the last layout, used to map pointer
	// positions into the chart's logical units.
	pxPerDp float32
}

func NewChartWidget(opts ...chart.Option) *ChartWidget {
	canvas := giocanvas.New()
	return &ChartWidget{
		Chart:   chart.New(canvas, opts...),
		canvas:  canvas,
		pxPerDp: 1,
	}
}

// Update applies pending pointer events in arrival order.
func (c *ChartWidget) Update(gtx C) {
	if gtx.Metric.PxPerDp > 0 {
		c.pxPerDp = gtx.Metric.PxPerDp
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		x := float64(e.Position.X / c.pxPerDp)
		switch e.Kind {
		case pointer.Press:
			c.PointerDown(x)
		case pointer.Drag:
			c.PointerMove(x)
		case pointer.Release:
			c.PointerUp()
		case pointer.Cancel:
			c.PointerCancel()
		}
	}
}

func (c *ChartWidget) Layout(gtx C) D {
	c.Update(gtx)
	size := gtx.Constraints.Max
	wake, err := c.Chart.Layout(chart.Geometry{
		Width:  float64(size.X) / float64(c.pxPerDp),
		Height: float64(size.Y) / float64(c.pxPerDp),
		Ratio:  float64(c.pxPerDp),
	})
	if err != nil {
		// Not laid out yet; try again next frame.
		return D{Size: image.Point{X: max(size.X, 0), Y: max(size.Y, 0)}}
	}
	if !wake.IsZero() {
		gtx.Execute(op.InvalidateCmd{At: wake})
	}
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)
	c.canvas.Layout(gtx)
	return D{Size: size}
}
