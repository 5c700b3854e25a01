package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"github.com/lanseria/fund-investment-assistant-mp/backend"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/lanseria/fund-investment-assistant-mp/config"
	"github.com/lanseria/fund-investment-assistant-mp/logging"
	"github.com/lanseria/fund-investment-assistant-mp/raster"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "navscope.yaml", "path to the YAML configuration file")
	source := flag.String("source", "", "CSV or JSON history file to chart")
	sqlitePath := flag.String("sqlite", "", "SQLite history database to read instead of a file")
	code := flag.String("code", "", "fund code to read from the -sqlite database")
	rangeKey := flag.String("range", "", "initial range (1m, 3m, 6m or 1y)")
	snapshot := flag.String("snapshot", "", "render the chart to this PNG file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed loading config: %v\n", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Source.Path = *source
	}
	if *sqlitePath != "" {
		cfg.Source.SQLitePath = *sqlitePath
	}
	if *code != "" {
		cfg.Source.Code = *code
	}
	if *rangeKey != "" {
		cfg.Chart.DefaultRange = *rangeKey
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)
	src := backend.Source{
		Path:       cfg.Source.Path,
		SQLitePath: cfg.Source.SQLitePath,
		Code:       cfg.Source.Code,
	}

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, src, cfg, logger); err != nil {
			logger.Fatal().Err(err).Str("path", *snapshot).Msg("failed writing snapshot")
		}
		return
	}

	go func() {
		w := app.NewWindow(
			app.Title("navscope"),
			app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
		)
		if err := loop(w, src, cfg, logger); err != nil {
			logger.Fatal().Err(err).Msg("window failed")
		}
		os.Exit(0)
	}()
	app.Main()
}

func writeSnapshot(path string, src backend.Source, cfg *config.Config, logger zerolog.Logger) (err error) {
	history, err := backend.ReadAll(context.Background(), src, logger)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return raster.Snapshot(f, history, raster.SnapshotOptions{
		Range: cfg.Chart.DefaultRange,
		Geometry: chart.Geometry{
			Width:  float64(cfg.Window.Width),
			Height: float64(cfg.Window.Height) / 2,
			Ratio:  2,
		},
		Style: cfg.Style(),
	})
}

func loop(w *app.Window, src backend.Source, cfg *config.Config, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	expl := explorer.NewExplorer(w)
	ds := backend.NewDatasource(src, logger)
	ws := backend.NewWindowState(ctx, ds, w)
	ui := NewUI(ws, expl, logger, w.Invalidate,
		chart.WithRange(cfg.Chart.DefaultRange),
		chart.WithStyle(cfg.Style()),
		chart.WithRedrawDelay(time.Duration(cfg.Chart.RedrawDelay)),
	)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
