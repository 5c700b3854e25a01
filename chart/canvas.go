package chart

import (
	"image"
	"image/color"
)

// Point is a position in logical surface units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Gradient is a two-stop linear gradient between From and To.
type Gradient struct {
	From, To           Point
	FromColor, ToColor color.NRGBA
}

// Stroke describes how a path outline is drawn.
type Stroke struct {
	Color color.NRGBA
	Width float64
	// Dash alternates on/off lengths. Empty means solid.
	Dash []float64
	// Round requests round joins and caps.
	Round bool
}

// Canvas is an immediate-mode drawing target. Drawing calls take effect in
// order and persist in the backing store until the next Clear.
type Canvas interface {
	// BackingSize is the size of the backing store in device pixels.
	BackingSize() image.Point
	// Resize replaces the backing store, discarding its content and any
	// transform.
	Resize(size image.Point)
	// SetScale sets the uniform transform applied to subsequent commands.
	SetScale(factor float64)
	// Clear erases the whole backing store.
	Clear()
	// FillPath fills the closed polygon with a gradient.
	FillPath(path []Point, fill Gradient)
	// StrokePath strokes an open polyline.
	StrokePath(path []Point, stroke Stroke)
	// FillCircle draws a filled circle with an outline.
	FillCircle(center Point, radius float64, fill color.NRGBA, outline Stroke)
}

// Style holds the fixed colours and widths of the chart.
type Style struct {
	Accent       color.NRGBA
	Fill         color.NRGBA
	Guide        color.NRGBA
	LineWidth    float64
	GuideWidth   float64
	GuideDash    []float64
	MarkerRadius float64
	MarkerRing   float64
}

var (
	defaultAccent = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff} //#EF4444
	guideGrey     = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff} //#9CA3AF
	white         = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// DefaultStyle returns the chart style for an accent colour. The area fill
// is the accent at 20% opacity.
func DefaultStyle(accent color.NRGBA) Style {
	if accent == (color.NRGBA{}) {
		accent = defaultAccent
	}
	fill := accent
	fill.A = 0x33
	return Style{
		Accent:       accent,
		Fill:         fill,
		Guide:        guideGrey,
		LineWidth:    2,
		GuideWidth:   1,
		GuideDash:    []float64{4, 4},
		MarkerRadius: 4,
		MarkerRing:   2,
	}
}
