package chart

import (
	"math"
)

const (
	// valuePadding keeps the extrema off the surface edges.
	valuePadding = 0.005
	// minSpan is the smallest value span a flat series is expanded to.
	minSpan = 1e-6
)

// Scales maps slice indices and values to surface coordinates in logical
// units. The zero value is a no-op mapper.
type Scales struct {
	MinVal, MaxVal float64
	Width, Height  float64
	n              int
}

// Valid reports whether the scales were built from a non-empty slice.
func (s Scales) Valid() bool {
	return s.n > 0
}

// Len is the length of the slice the scales were built from.
func (s Scales) Len() int {
	return s.n
}

// X maps a slice index onto 0..Width.
func (s Scales) X(index int) float64 {
	switch {
	case s.n < 1:
		return 0
	case s.n == 1:
		return s.Width / 2
	}
	return float64(index) / float64(s.n-1) * s.Width
}

// Y maps a value onto the vertical axis. Larger values are closer to the
// top of the surface.
func (s Scales) Y(value float64) float64 {
	if s.n < 1 {
		return 0
	}
	return s.Height - (value-s.MinVal)/(s.MaxVal-s.MinVal)*s.Height
}

// BuildScales derives scale functions for slice on a surface of the given
// logical size.
func BuildScales(slice []HistoryPoint, width, height float64) Scales {
	if len(slice) < 1 {
		return Scales{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range slice {
		v := p.Value()
		lo = min(lo, v)
		hi = max(hi, v)
	}
	lo -= math.Abs(lo) * valuePadding
	hi += math.Abs(hi) * valuePadding
	if hi-lo < minSpan {
		mid := (lo + hi) / 2
		half := max(math.Abs(mid)*valuePadding, minSpan)
		lo, hi = mid-half, mid+half
	}
	return Scales{
		MinVal: lo,
		MaxVal: hi,
		Width:  width,
		Height: height,
		n:      len(slice),
	}
}
