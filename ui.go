package main

import (
	"errors"
	"image"
	"image/color"
	"time"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/lanseria/fund-investment-assistant-mp/backend"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/rs/zerolog"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws         backend.WindowState
	expl       *explorer.Explorer
	log        zerolog.Logger
	invalidate func()
	now        func() time.Time

	th        *material.Theme
	chart     *ChartWidget
	rangeTab  widget.Enum
	openBtn   widget.Clickable
	perfTable component.GridState

	historyStream *stream.Stream[backend.Load]
	load          backend.Load
	appliedSeq    uint64
	perf          []chart.PeriodReturn
	// openErrs carries failures from the file picker goroutine.
	openErrs chan error
	openErr  string
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, log zerolog.Logger, invalidate func(), opts ...chart.Option) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:            ws,
		expl:          expl,
		log:           log,
		invalidate:    invalidate,
		now:           time.Now,
		th:            th,
		chart:         NewChartWidget(append(opts, chart.WithLogger(log))...),
		historyStream: ws.HistoryStream(),
		openErrs:      make(chan error, 1),
	}
	ui.rangeTab.Value = ui.chart.ActiveRange()
	return ui
}

// Update the state of the UI from the backend and from input events.
func (ui *UI) Update(gtx C) {
	ui.historyStream.ReadInto(gtx, &ui.load, backend.Load{Loading: true})
	if !ui.load.Loading && ui.load.Seq != ui.appliedSeq {
		ui.appliedSeq = ui.load.Seq
		if ui.load.Err == nil {
			ui.chart.SetHistory(ui.load.History)
			ui.perf = chart.Performance(ui.load.History, ui.now())
		}
	}
	ui.rangeTab.Update(gtx)
	if ui.rangeTab.Value != ui.chart.ActiveRange() {
		ui.chart.SetRange(ui.rangeTab.Value)
	}
	if ui.openBtn.Clicked(gtx) {
		ui.openErr = ""
		go func() {
			err := ui.ws.Datasource.LoadFromFile(ui.expl)
			if err == nil || errors.Is(err, explorer.ErrUserDecline) {
				return
			}
			ui.log.Error().Err(err).Msg("failed opening history file")
			select {
			case ui.openErrs <- err:
			default:
			}
			ui.invalidate()
		}()
	}
	select {
	case err := <-ui.openErrs:
		ui.openErr = err.Error()
	default:
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width:        1,
			CornerRadius: 4,
			Color:        th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.state.Layout(gtx, t.value, func(gtx C) D {
				return layout.Background{}.Layout(gtx, func(gtx C) D {
					paint.FillShape(gtx.Ops, t.fill, clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(4)).Op(gtx.Ops))
					return D{Size: gtx.Constraints.Min}
				}, func(gtx C) D {
					return t.inset.Layout(gtx, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutTabs(gtx C) D {
	children := make([]layout.FlexChild, 0, len(chart.Ranges))
	for _, r := range chart.Ranges {
		children = append(children, layout.Flexed(1, Tab(ui.th, &ui.rangeTab, r.Key, r.Label).Layout))
	}
	return layout.Flex{}.Layout(gtx, children...)
}

// layoutReadout shows the point under the pointer, or the latest point of
// the active range.
func (ui *UI) layoutReadout(gtx C) D {
	p, ok := ui.chart.Selection()
	caption := "Selected"
	if !ok {
		slice := ui.chart.Slice()
		if len(slice) == 0 {
			return D{}
		}
		p = slice[len(slice)-1]
		caption = "Latest"
	}
	date, nav := p.Readout()
	return layout.Flex{Alignment: layout.Baseline, Spacing: layout.SpaceBetween}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			l := material.Body2(ui.th, caption+" "+date)
			l.Color = mutedColor
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			return material.H6(ui.th, nav).Layout(gtx)
		}),
	)
}

func (ui *UI) layoutPerformance(gtx C) D {
	table := component.Table(ui.th, &ui.perfTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	rowHeight := gtx.Sp(24)
	const (
		periodCol = iota
		returnCol
		numCols
	)
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(ui.perf)+1))
	return table.Layout(gtx, len(ui.perf), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			return constraint / numCols
		},
		func(gtx C, index int) D {
			l := material.Body1(ui.th, "Period")
			if index == returnCol {
				l.Text = "Return"
				l.Alignment = text.End
			}
			l.Color = ui.th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					return layout.UniformInset(2).Layout(gtx, l.Layout)
				},
			)
		},
		func(gtx C, row, col int) D {
			p := ui.perf[row]
			l := material.Body1(ui.th, p.Label)
			if col == returnCol {
				l.Text = formatReturn(p)
				l.Color = returnColor(p)
				l.Alignment = text.End
			}
			l.MaxLines = 1
			return layout.UniformInset(2).Layout(gtx, l.Layout)
		},
	)
}

func (ui *UI) layoutStatus(gtx C) D {
	msg, col := "", mutedColor
	switch {
	case ui.openErr != "":
		msg, col = ui.openErr, errorColor
	case ui.load.Err != nil && !ui.load.Loading:
		msg = "Could not load history: " + ui.load.Err.Error()
	case ui.load.Loading && ui.appliedSeq > 0:
		msg = "Reloading history…"
	default:
		msg = "Source: " + ui.load.Source.String()
	}
	l := material.Caption(ui.th, msg)
	l.Color = col
	l.MaxLines = 2
	return l.Layout(gtx)
}

func (ui *UI) layoutHeader(gtx C) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, ui.layoutStatus),
		layout.Rigid(func(gtx C) D {
			btn := material.IconButton(ui.th, &ui.openBtn, openIcon, "Open history file")
			btn.Size = unit.Dp(20)
			btn.Inset = layout.UniformInset(6)
			return btn.Layout(gtx)
		}),
	)
}

func (ui *UI) layoutChartArea(gtx C) D {
	if ui.appliedSeq == 0 {
		return layoutCentered(gtx, material.Body1(ui.th, "Loading history…"))
	}
	if len(ui.chart.History()) == 0 {
		return layoutCentered(gtx, material.Body1(ui.th, "No data yet."))
	}
	return ui.chart.Layout(gtx)
}

func layoutCentered(gtx C, l material.LabelStyle) D {
	return layout.Center.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		return l.Layout(gtx)
	})
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(ui.layoutHeader),
			layout.Rigid(ui.layoutTabs),
			layout.Rigid(func(gtx C) D {
				return layout.Inset{Top: 4, Bottom: 4}.Layout(gtx, ui.layoutReadout)
			}),
			layout.Flexed(1, ui.layoutChartArea),
			layout.Rigid(func(gtx C) D {
				if len(ui.perf) == 0 {
					return D{}
				}
				return layout.Inset{Top: 8}.Layout(gtx, ui.layoutPerformance)
			}),
		)
	})
}
