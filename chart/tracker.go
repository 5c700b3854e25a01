package chart

import (
	"math"

	"golang.org/x/exp/constraints"
)

// TrackerState is the scrubbing state of a Tracker.
type TrackerState uint8

const (
	Idle TrackerState = iota
	Scrubbing
)

func (s TrackerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scrubbing:
		return "scrubbing"
	default:
		return "unknown"
	}
}

// Frame is everything the tracker needs to repaint: the surface, the
// windowed slice and the scales derived from exactly that slice.
type Frame struct {
	Surface *Surface
	Slice   []HistoryPoint
	Scales  Scales
	Style   Style
}

func (f Frame) drawable() bool {
	return f.Surface != nil && f.Surface.Ready() && len(f.Slice) > 0 && f.Scales.Len() == len(f.Slice)
}

// Tracker turns pointer positions into a selected point and paints the
// crosshair for it.
type Tracker struct {
	state     TrackerState
	index     int
	selection *HistoryPoint
}

// State returns the current state.
func (t *Tracker) State() TrackerState {
	return t.state
}

// Selection returns the selected point while scrubbing.
func (t *Tracker) Selection() (HistoryPoint, bool) {
	if t.selection == nil {
		return HistoryPoint{}, false
	}
	return *t.selection, true
}

// Index returns the selected slice index, or -1 when nothing is selected.
func (t *Tracker) Index() int {
	if t.selection == nil {
		return -1
	}
	return t.index
}

// Down starts scrubbing at x. It behaves exactly like Move.
func (t *Tracker) Down(f Frame, x float64) {
	t.Move(f, x)
}

// Move snaps x to the nearest point, repaints the base frame and draws the
// guide and marker over it. Frames with nothing to draw are ignored.
func (t *Tracker) Move(f Frame, x float64) {
	if !f.drawable() {
		return
	}
	t.state = Scrubbing
	t.index = NearestIndex(x, f.Scales.Width, len(f.Slice))
	p := f.Slice[t.index]
	t.selection = &p
	DrawBaseFrame(f.Surface, f.Slice, f.Scales, f.Style)
	DrawOverlay(f.Surface, f.Slice, f.Scales, f.Style, t.index)
}

// Up ends scrubbing, leaving only the base frame on the surface.
func (t *Tracker) Up(f Frame) {
	wasScrubbing := t.state == Scrubbing
	t.Reset()
	if wasScrubbing && f.Surface != nil && f.Surface.Ready() {
		DrawBaseFrame(f.Surface, f.Slice, f.Scales, f.Style)
	}
}

// Cancel is equivalent to Up.
func (t *Tracker) Cancel(f Frame) {
	t.Up(f)
}

// Reset returns to Idle and drops the selection without drawing.
func (t *Tracker) Reset() {
	t.state = Idle
	t.index = 0
	t.selection = nil
}

// NearestIndex maps a surface x coordinate to the closest index of a slice
// of length n spread across width.
func NearestIndex(x, width float64, n int) int {
	if n < 2 || width <= 0 {
		return 0
	}
	idx := int(math.Round(x / width * float64(n-1)))
	return clamp(idx, 0, n-1)
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
