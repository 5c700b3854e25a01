package chart

import (
	"image"
	"image/color"
)

type call struct {
	op     string
	path   []Point
	fill   Gradient
	stroke Stroke
	center Point
	radius float64
	color  color.NRGBA
}

// recorder is a Canvas that remembers every command it receives.
type recorder struct {
	size    image.Point
	scale   float64
	resizes int
	calls   []call
}

var _ Canvas = (*recorder)(nil)

func (r *recorder) BackingSize() image.Point { return r.size }

func (r *recorder) Resize(size image.Point) {
	r.size = size
	r.scale = 1
	r.resizes++
	r.calls = append(r.calls, call{op: "resize"})
}

func (r *recorder) SetScale(factor float64) { r.scale = factor }

func (r *recorder) Clear() { r.calls = append(r.calls, call{op: "clear"}) }

func (r *recorder) FillPath(path []Point, fill Gradient) {
	r.calls = append(r.calls, call{op: "fill", path: path, fill: fill})
}

func (r *recorder) StrokePath(path []Point, stroke Stroke) {
	r.calls = append(r.calls, call{op: "stroke", path: path, stroke: stroke})
}

func (r *recorder) FillCircle(center Point, radius float64, fill color.NRGBA, outline Stroke) {
	r.calls = append(r.calls, call{op: "circle", center: center, radius: radius, color: fill, stroke: outline})
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}

func (r *recorder) reset() {
	r.calls = nil
}

// sinceClear returns the ops recorded after the last clear.
func (r *recorder) sinceClear() []string {
	ops := r.ops()
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i] == "clear" {
			return ops[i+1:]
		}
	}
	return ops
}
