package chart

import (
	"errors"
	"image"
	"math"
)

// ErrSurfaceUnavailable means the host has not laid the surface out yet.
// It is transient; the next layout retries.
var ErrSurfaceUnavailable = errors.New("chart: surface unavailable")

// Geometry is the logical size of the surface and its device pixel ratio.
type Geometry struct {
	Width, Height float64
	Ratio         float64
}

// Backing is the backing store size in device pixels for g.
func (g Geometry) Backing() image.Point {
	return image.Pt(int(math.Round(g.Width*g.Ratio)), int(math.Round(g.Height*g.Ratio)))
}

// Surface owns a Canvas and its geometry. Once Ensure succeeds every drawing
// command is issued in logical units.
type Surface struct {
	canvas Canvas
	geom   Geometry
	ready  bool
}

// NewSurface wraps canvas. The surface is not ready until Ensure succeeds.
func NewSurface(canvas Canvas) *Surface {
	return &Surface{canvas: canvas}
}

// Canvas returns the wrapped canvas.
func (s *Surface) Canvas() Canvas {
	return s.canvas
}

// Geometry returns the geometry established by the last successful Ensure.
func (s *Surface) Geometry() Geometry {
	return s.geom
}

// Ready reports whether the surface has been established.
func (s *Surface) Ready() bool {
	return s.ready
}

// Ensure establishes the surface for the given logical size and ratio. The
// backing store is only resized, and the scale transform reapplied, when
// the backing store no longer matches logical size × ratio; otherwise the
// call leaves prior drawing untouched. It reports whether a resize
// happened.
func (s *Surface) Ensure(width, height, ratio float64) (resized bool, err error) {
	if width <= 0 || height <= 0 {
		return false, ErrSurfaceUnavailable
	}
	if ratio <= 0 {
		ratio = 1
	}
	g := Geometry{Width: width, Height: height, Ratio: ratio}
	if s.ready && s.geom == g && s.canvas.BackingSize() == g.Backing() {
		return false, nil
	}
	s.canvas.Resize(g.Backing())
	s.canvas.SetScale(ratio)
	s.geom = g
	s.ready = true
	return true, nil
}
