// Package giocanvas implements chart.Canvas on top of Gio operations. Drawing
// commands are recorded into an operation list owned by the canvas, which
// plays the role of a retained backing store: it is replayed every frame
// until the next Clear.
package giocanvas

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
)

// unitRadius is the integer radius of the ellipse that is scaled down to
// draw circles with sub-pixel radii.
const unitRadius = 1024

type Canvas struct {
	size  image.Point
	scale float32
	ops   op.Ops
	calls []op.CallOp
}

var _ chart.Canvas = (*Canvas)(nil)

func New() *Canvas {
	return &Canvas{scale: 1}
}

func (c *Canvas) BackingSize() image.Point {
	return c.size
}

func (c *Canvas) Resize(size image.Point) {
	c.size = size
	c.scale = 1
	c.Clear()
}

func (c *Canvas) SetScale(factor float64) {
	c.scale = float32(factor)
}

func (c *Canvas) Clear() {
	c.ops.Reset()
	c.calls = c.calls[:0]
}

// record runs draw with its output captured as one command.
func (c *Canvas) record(draw func(ops *op.Ops)) {
	macro := op.Record(&c.ops)
	t := op.Affine(f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(c.scale, c.scale))).Push(&c.ops)
	draw(&c.ops)
	t.Pop()
	c.calls = append(c.calls, macro.Stop())
}

func pt(p chart.Point) f32.Point {
	return f32.Pt(float32(p.X), float32(p.Y))
}

func polyline(ops *op.Ops, path []chart.Point, closed bool) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(pt(path[0]))
	for _, q := range path[1:] {
		p.LineTo(pt(q))
	}
	if closed {
		p.Close()
	}
	return p.End()
}

func (c *Canvas) FillPath(path []chart.Point, fill chart.Gradient) {
	if len(path) < 3 {
		return
	}
	c.record(func(ops *op.Ops) {
		stack := clip.Outline{Path: polyline(ops, path, true)}.Op().Push(ops)
		paint.LinearGradientOp{
			Stop1:  pt(fill.From),
			Color1: fill.FromColor,
			Stop2:  pt(fill.To),
			Color2: fill.ToColor,
		}.Add(ops)
		paint.PaintOp{}.Add(ops)
		stack.Pop()
	})
}

func (c *Canvas) StrokePath(path []chart.Point, stroke chart.Stroke) {
	if len(path) < 2 || stroke.Width <= 0 {
		return
	}
	c.record(func(ops *op.Ops) {
		width := float32(stroke.Width)
		if len(stroke.Dash) == 0 {
			paint.FillShape(ops, stroke.Color, clip.Stroke{Path: polyline(ops, path, false), Width: width}.Op())
		} else {
			for i := 1; i < len(path); i++ {
				for _, seg := range chart.Dashes(path[i-1], path[i], stroke.Dash) {
					paint.FillShape(ops, stroke.Color, clip.Stroke{Path: polyline(ops, seg[:], false), Width: width}.Op())
				}
			}
		}
		// Gio strokes have butt caps and bevelled joins; discs on every
		// vertex round them off.
		if stroke.Round && len(stroke.Dash) == 0 {
			for _, p := range path {
				disc(ops, p, stroke.Width/2, stroke.Color)
			}
		}
	})
}

func (c *Canvas) FillCircle(center chart.Point, radius float64, fill color.NRGBA, outline chart.Stroke) {
	if radius <= 0 {
		return
	}
	c.record(func(ops *op.Ops) {
		inner := radius
		if outline.Width > 0 {
			disc(ops, center, radius+outline.Width/2, outline.Color)
			inner = radius - outline.Width/2
		}
		disc(ops, center, inner, fill)
	})
}

func disc(ops *op.Ops, center chart.Point, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	s := float32(radius / unitRadius)
	t := op.Affine(f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(s, s)).Offset(pt(center))).Push(ops)
	paint.FillShape(ops, col, clip.Ellipse{
		Min: image.Pt(-unitRadius, -unitRadius),
		Max: image.Pt(unitRadius, unitRadius),
	}.Op(ops))
	t.Pop()
}

// Layout replays the recorded commands clipped to the backing store.
func (c *Canvas) Layout(gtx layout.Context) layout.Dimensions {
	defer clip.Rect{Max: c.size}.Push(gtx.Ops).Pop()
	for _, call := range c.calls {
		call.Add(gtx.Ops)
	}
	return layout.Dimensions{Size: c.size}
}
