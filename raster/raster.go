// Package raster draws charts into an in-memory image with gg, for PNG
// snapshots and for checking rendered pixels in tests.
package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
)

// Canvas is a chart.Canvas backed by a gg context.
type Canvas struct {
	// Background is the colour Clear fills with. The zero value clears to
	// transparent.
	Background color.NRGBA

	dc    *gg.Context
	scale float64
}

var _ chart.Canvas = (*Canvas)(nil)

// NewCanvas returns a canvas with an empty backing store. The chart
// surface sizes it on first layout.
func NewCanvas(background color.NRGBA) *Canvas {
	return &Canvas{Background: background, scale: 1}
}

func (c *Canvas) BackingSize() image.Point {
	if c.dc == nil {
		return image.Point{}
	}
	return image.Pt(c.dc.Width(), c.dc.Height())
}

func (c *Canvas) Resize(size image.Point) {
	c.dc = gg.NewContext(max(size.X, 1), max(size.Y, 1))
	c.scale = 1
}

func (c *Canvas) SetScale(factor float64) {
	if c.dc == nil {
		return
	}
	c.scale = factor
	c.dc.Identity()
	c.dc.Scale(factor, factor)
}

func (c *Canvas) Clear() {
	if c.dc == nil {
		return
	}
	c.dc.SetColor(c.Background)
	c.dc.Clear()
}

func (c *Canvas) FillPath(path []chart.Point, fill chart.Gradient) {
	if c.dc == nil || len(path) < 3 {
		return
	}
	c.trace(path)
	c.dc.ClosePath()
	// Gradient coordinates are evaluated in device pixels, not through the
	// context transform.
	g := gg.NewLinearGradient(
		fill.From.X*c.scale, fill.From.Y*c.scale,
		fill.To.X*c.scale, fill.To.Y*c.scale,
	)
	g.AddColorStop(0, fill.FromColor)
	g.AddColorStop(1, fill.ToColor)
	c.dc.SetFillStyle(g)
	c.dc.Fill()
}

func (c *Canvas) StrokePath(path []chart.Point, stroke chart.Stroke) {
	if c.dc == nil || len(path) < 2 {
		return
	}
	c.dc.Push()
	defer c.dc.Pop()
	c.applyStroke(stroke)
	c.trace(path)
	c.dc.Stroke()
}

func (c *Canvas) FillCircle(center chart.Point, radius float64, fill color.NRGBA, outline chart.Stroke) {
	if c.dc == nil {
		return
	}
	c.dc.Push()
	defer c.dc.Pop()
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.SetColor(fill)
	c.dc.FillPreserve()
	c.applyStroke(outline)
	c.dc.Stroke()
}

// applyStroke configures the stroke. Widths and dashes are not affected by
// the context transform, so they are scaled here.
func (c *Canvas) applyStroke(s chart.Stroke) {
	c.dc.SetColor(s.Color)
	c.dc.SetLineWidth(s.Width * c.scale)
	if s.Round {
		c.dc.SetLineCap(gg.LineCapRound)
		c.dc.SetLineJoin(gg.LineJoinRound)
	} else {
		c.dc.SetLineCap(gg.LineCapButt)
		c.dc.SetLineJoin(gg.LineJoinBevel)
	}
	dashes := make([]float64, len(s.Dash))
	for i, d := range s.Dash {
		dashes[i] = d * c.scale
	}
	c.dc.SetDash(dashes...)
}

func (c *Canvas) trace(path []chart.Point) {
	c.dc.NewSubPath()
	c.dc.MoveTo(path[0].X, path[0].Y)
	for _, p := range path[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
}

// Image returns the backing store, or nil before the first resize.
func (c *Canvas) Image() image.Image {
	if c.dc == nil {
		return nil
	}
	return c.dc.Image()
}

// EncodePNG writes the backing store as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.dc == nil {
		return chart.ErrSurfaceUnavailable
	}
	return c.dc.EncodePNG(w)
}
