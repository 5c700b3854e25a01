package raster

import (
	"fmt"
	"image/color"
	"io"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
)

// SnapshotOptions describes a static chart render.
type SnapshotOptions struct {
	Range    string
	Geometry chart.Geometry
	Style    chart.Style
	// ScrubX, when non-nil, draws the crosshair as if the pointer were held
	// at that logical x.
	ScrubX *float64
}

// Snapshot renders history through the same chart code path as the
// interactive view and writes it to w as PNG.
func Snapshot(w io.Writer, history []chart.HistoryPoint, opts SnapshotOptions) error {
	st := opts.Style
	if st.LineWidth == 0 {
		st = chart.DefaultStyle(st.Accent)
	}
	canvas := NewCanvas(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	c := chart.New(canvas, chart.WithStyle(st), chart.WithRange(opts.Range))
	c.SetHistory(history)
	if _, err := c.Layout(opts.Geometry); err != nil {
		return fmt.Errorf("laying out snapshot: %w", err)
	}
	if opts.ScrubX != nil {
		c.PointerDown(*opts.ScrubX)
	}
	if err := canvas.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
