// Package chart implements the interactive NAV history chart: windowing the
// history to a range, mapping it onto a surface, drawing the base frame and
// scrubbing a crosshair across it. It issues drawing commands through the
// Canvas interface and knows nothing about the host toolkit.
package chart

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for history points.
const DateLayout = "2006-01-02"

// HistoryPoint is one daily valuation sample.
type HistoryPoint struct {
	Date time.Time
	NAV  decimal.Decimal
}

// Value returns the NAV as a float for plotting.
func (p HistoryPoint) Value() float64 {
	return p.NAV.InexactFloat64()
}

// Readout is the text form of a selected point shown by the host next to
// the chart.
func (p HistoryPoint) Readout() (date, nav string) {
	return p.Date.Format(DateLayout), p.NAV.StringFixed(4)
}

// RangeSpec is a named lookback window. Samples approximates trading days
// rather than calendar days.
type RangeSpec struct {
	Key     string
	Label   string
	Samples int
}

// Ranges is the fixed range table, shortest first.
var Ranges = []RangeSpec{
	{Key: "1m", Label: "1M", Samples: 22},
	{Key: "3m", Label: "3M", Samples: 66},
	{Key: "6m", Label: "6M", Samples: 130},
	{Key: "1y", Label: "1Y", Samples: 250},
}

// DefaultRange is the key of the shortest range.
const DefaultRange = "1m"

// LookupRange finds the range with the given key. Unknown keys resolve to
// the shortest range and ok is false.
func LookupRange(key string) (spec RangeSpec, ok bool) {
	for _, r := range Ranges {
		if r.Key == key {
			return r, true
		}
	}
	return Ranges[0], false
}

// Select returns the most recent points of full covered by the range key.
// The result never shares backing storage with full.
func Select(full []HistoryPoint, key string) []HistoryPoint {
	spec, _ := LookupRange(key)
	n := min(spec.Samples, len(full))
	out := make([]HistoryPoint, n)
	copy(out, full[len(full)-n:])
	return out
}
