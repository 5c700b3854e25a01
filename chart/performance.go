package chart

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodReturn is the NAV change over one lookback period, in percent.
type PeriodReturn struct {
	Key     string
	Label   string
	Percent decimal.Decimal
	// OK is false when the period holds fewer than two points.
	OK bool
}

// Up reports whether the period did not lose value.
func (r PeriodReturn) Up() bool {
	return !r.Percent.IsNegative()
}

var hundred = decimal.NewFromInt(100)

// Performance computes the return of every range in Ranges, then the
// year-to-date return relative to now and the return over the whole
// history.
func Performance(full []HistoryPoint, now time.Time) []PeriodReturn {
	out := make([]PeriodReturn, 0, len(Ranges)+2)
	for _, r := range Ranges {
		out = append(out, periodReturn(r.Key, r.Label, Select(full, r.Key)))
	}
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	first := len(full)
	for i, p := range full {
		if !p.Date.Before(yearStart) {
			first = i
			break
		}
	}
	out = append(out, periodReturn("ytd", "YTD", full[first:]))
	out = append(out, periodReturn("all", "All", full))
	return out
}

func periodReturn(key, label string, points []HistoryPoint) PeriodReturn {
	r := PeriodReturn{Key: key, Label: label}
	if len(points) < 2 {
		return r
	}
	start, end := points[0].NAV, points[len(points)-1].NAV
	if start.IsZero() {
		return r
	}
	r.Percent = end.Div(start).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(2)
	r.OK = true
	return r
}
