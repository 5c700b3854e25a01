package main

import (
	"image/color"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
)

var (
	upColor    = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff} //#EF4444
	downColor  = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff} //#22C55E
	mutedColor = color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff} //#6B7280
	errorColor = color.NRGBA{R: 150, A: 255}
)

// returnColor follows the convention of the fund market: gains are red and
// losses green.
func returnColor(p chart.PeriodReturn) color.NRGBA {
	switch {
	case !p.OK || p.Percent.IsZero():
		return mutedColor
	case p.Up():
		return upColor
	default:
		return downColor
	}
}

// formatReturn renders a period return as a signed percentage.
func formatReturn(p chart.PeriodReturn) string {
	if !p.OK {
		return "--"
	}
	s := p.Percent.StringFixed(2) + "%"
	if p.Percent.IsPositive() {
		s = "+" + s
	}
	return s
}
