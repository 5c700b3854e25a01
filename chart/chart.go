package chart

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Chart owns the state of one interactive chart: the full history, the
// active range and its windowed slice, the derived scales, the surface and
// the scrub tracker. All methods must be called from the UI goroutine.
type Chart struct {
	full     []HistoryPoint
	rangeKey string
	slice    []HistoryPoint
	// gen increments whenever slice is replaced. Scales built for an older
	// generation are never used.
	gen       uint64
	scales    Scales
	scalesGen uint64
	scalesFor Geometry

	surface *Surface
	tracker Tracker
	style   Style

	delay   time.Duration
	pending bool
	due     time.Time
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures a Chart.
type Option func(*Chart)

// WithStyle sets the drawing style.
func WithStyle(st Style) Option {
	return func(c *Chart) { c.style = st }
}

// WithRedrawDelay defers the redraw after a range or history change by d,
// giving the host layout time to settle. Zero redraws on the next Layout.
func WithRedrawDelay(d time.Duration) Option {
	return func(c *Chart) { c.delay = max(d, 0) }
}

// WithRange sets the initial range key.
func WithRange(key string) Option {
	return func(c *Chart) { c.rangeKey = key }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Chart) { c.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Chart) { c.now = now }
}

// New creates a chart drawing onto canvas.
func New(canvas Canvas, opts ...Option) *Chart {
	c := &Chart{
		rangeKey: DefaultRange,
		surface:  NewSurface(canvas),
		style:    DefaultStyle(defaultAccent),
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := LookupRange(c.rangeKey); !ok {
		c.rangeKey = DefaultRange
	}
	return c
}

// SetHistory replaces the full history. The chart keeps its own copy, so
// the caller may reuse full afterwards.
func (c *Chart) SetHistory(full []HistoryPoint) {
	c.full = append([]HistoryPoint(nil), full...)
	c.reselect()
}

// History returns the full history.
func (c *Chart) History() []HistoryPoint {
	return c.full
}

// ActiveRange returns the active range key.
func (c *Chart) ActiveRange() string {
	return c.rangeKey
}

// SetRange activates the range key. Unknown keys resolve to the shortest
// range. Requesting the active range does nothing and returns false.
func (c *Chart) SetRange(key string) bool {
	spec, _ := LookupRange(key)
	key = spec.Key
	if key == c.rangeKey {
		return false
	}
	c.rangeKey = key
	c.log.Debug().Str("range", key).Msg("range changed")
	c.reselect()
	return true
}

func (c *Chart) reselect() {
	c.slice = Select(c.full, c.rangeKey)
	c.gen++
	c.tracker.Reset()
	c.pending = true
	c.due = c.now().Add(c.delay)
}

// Slice returns the windowed slice for the active range.
func (c *Chart) Slice() []HistoryPoint {
	return c.slice
}

// Selection returns the point under the pointer while scrubbing.
func (c *Chart) Selection() (HistoryPoint, bool) {
	return c.tracker.Selection()
}

// Scrubbing reports whether a pointer is held on the chart.
func (c *Chart) Scrubbing() bool {
	return c.tracker.State() == Scrubbing
}

// Surface returns the chart's surface.
func (c *Chart) Surface() *Surface {
	return c.surface
}

// Scales returns the scales for the current slice and surface, rebuilding
// them if the slice or geometry changed since they were derived.
func (c *Chart) Scales() Scales {
	g := c.surface.Geometry()
	if c.scalesGen != c.gen || c.scalesFor != g || c.scales.Len() != len(c.slice) {
		c.scales = BuildScales(c.slice, g.Width, g.Height)
		c.scalesGen = c.gen
		c.scalesFor = g
	}
	return c.scales
}

func (c *Chart) frame() Frame {
	return Frame{
		Surface: c.surface,
		Slice:   c.slice,
		Scales:  c.Scales(),
		Style:   c.style,
	}
}

// Layout establishes the surface at the host's current geometry and
// performs any redraw that is due. A resize always repaints, since the
// backing store was replaced. When a deferred redraw is still waiting, wake
// is the time it becomes due and the host should lay out again then.
// ErrSurfaceUnavailable means the geometry is not known yet.
func (c *Chart) Layout(g Geometry) (wake time.Time, err error) {
	resized, err := c.surface.Ensure(g.Width, g.Height, g.Ratio)
	if err != nil {
		return time.Time{}, err
	}
	if resized {
		c.log.Debug().
			Float64("width", g.Width).
			Float64("height", g.Height).
			Float64("ratio", g.Ratio).
			Msg("surface resized")
	}
	if c.pending {
		if now := c.now(); now.Before(c.due) {
			return c.due, nil
		}
		c.pending = false
		c.redraw()
		return time.Time{}, nil
	}
	if resized {
		c.redraw()
	}
	return time.Time{}, nil
}

// redraw paints the base frame, keeping the overlay if a scrub is in
// progress.
func (c *Chart) redraw() {
	f := c.frame()
	if c.tracker.State() == Scrubbing && f.drawable() {
		DrawBaseFrame(f.Surface, f.Slice, f.Scales, f.Style)
		DrawOverlay(f.Surface, f.Slice, f.Scales, f.Style, c.tracker.Index())
		return
	}
	DrawBaseFrame(f.Surface, f.Slice, f.Scales, f.Style)
}

// PointerDown starts scrubbing at surface x.
func (c *Chart) PointerDown(x float64) {
	if !c.surface.Ready() {
		return
	}
	c.tracker.Down(c.frame(), x)
}

// PointerMove moves the scrub position to surface x.
func (c *Chart) PointerMove(x float64) {
	if !c.surface.Ready() {
		return
	}
	c.tracker.Move(c.frame(), x)
}

// PointerUp ends scrubbing.
func (c *Chart) PointerUp() {
	c.tracker.Up(c.frame())
}

// PointerCancel ends scrubbing like PointerUp.
func (c *Chart) PointerCancel() {
	c.tracker.Cancel(c.frame())
}

// IsUnavailable reports whether err means the surface is not laid out yet.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrSurfaceUnavailable)
}
