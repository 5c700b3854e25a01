package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/lanseria/fund-investment-assistant-mp/backend"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/lanseria/fund-investment-assistant-mp/config"
	"github.com/lanseria/fund-investment-assistant-mp/logging"
	"github.com/lanseria/fund-investment-assistant-mp/raster"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: manage fund NAV histories for navscope
Usage:

 %[1]s -import history.csv -db nav.db -code 000001
 %[1]s -export -db nav.db -code 000001 > history.csv
 %[1]s -demo 300 -output history.csv
 %[1]s -render chart.png -source history.csv -range 3m

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	importPath := flag.String("import", "", "CSV or JSON history file to import into -db")
	dbPath := flag.String("db", "nav.db", "SQLite history database")
	code := flag.String("code", "", "fund code to import, export or render")
	export := flag.Bool("export", false, "print the history of -code from -db as CSV")
	demo := flag.Int("demo", 0, "emit a synthetic history of this many trading days as CSV")
	start := flag.String("start", "2024-01-01", "first date of the -demo history")
	outputName := flag.String("output", "-", "output file for -export and -demo")
	render := flag.String("render", "", "render a chart snapshot to this PNG file")
	source := flag.String("source", "", "history file to render; defaults to -code from -db")
	rangeKey := flag.String("range", chart.DefaultRange, "range to render (1m, 3m, 6m or 1y)")
	width := flag.Float64("width", 420, "snapshot width in logical pixels")
	height := flag.Float64("height", 240, "snapshot height in logical pixels")
	ratio := flag.Float64("ratio", 2, "device pixel ratio of the snapshot")
	accent := flag.String("accent", "#EF4444", "line colour of the snapshot")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logging.New(*logLevel, os.Stderr)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch {
	case *importPath != "":
		err = importHistory(ctx, *importPath, *dbPath, *code, logger)
	case *export:
		err = withOutput(*outputName, func(w io.Writer) error {
			return exportHistory(ctx, w, *dbPath, *code)
		})
	case *demo > 0:
		err = withOutput(*outputName, func(w io.Writer) error {
			first, err := backend.ParseDate(*start)
			if err != nil {
				return err
			}
			return backend.WriteCSV(w, demoHistory(*demo, first))
		})
	case *render != "":
		src := backend.Source{Path: *source, SQLitePath: *dbPath, Code: *code}
		st, serr := snapshotStyle(*accent)
		if serr != nil {
			err = serr
			break
		}
		err = renderHistory(ctx, *render, src, raster.SnapshotOptions{
			Range:    *rangeKey,
			Geometry: chart.Geometry{Width: *width, Height: *height, Ratio: *ratio},
			Style:    st,
		}, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("nav-history failed")
	}
}

func withOutput(name string, write func(io.Writer) error) (err error) {
	if name == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed opening output file %q: %w", name, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

func importHistory(ctx context.Context, path, dbPath, code string, logger zerolog.Logger) (err error) {
	if code == "" {
		return errors.New("-code is required for -import")
	}
	points, err := backend.ReadAll(ctx, backend.Source{Path: path}, logger)
	if err != nil {
		return err
	}
	store, err := backend.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	if err := store.Upsert(ctx, code, points); err != nil {
		return err
	}
	logger.Info().Str("code", code).Int("points", len(points)).Str("db", dbPath).Msg("imported history")
	return nil
}

func exportHistory(ctx context.Context, w io.Writer, dbPath, code string) (err error) {
	if code == "" {
		return errors.New("-code is required for -export")
	}
	store, err := backend.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	points, err := store.History(ctx, code)
	if err != nil {
		return err
	}
	return backend.WriteCSV(w, points)
}

func renderHistory(ctx context.Context, path string, src backend.Source, opts raster.SnapshotOptions, logger zerolog.Logger) error {
	history, err := backend.ReadAll(ctx, src, logger)
	if err != nil {
		return err
	}
	return withOutput(path, func(w io.Writer) error {
		return raster.Snapshot(w, history, opts)
	})
}

func snapshotStyle(accent string) (chart.Style, error) {
	c, err := config.ParseHexColor(accent)
	if err != nil {
		return chart.Style{}, fmt.Errorf("-accent: %w", err)
	}
	return chart.DefaultStyle(c), nil
}

// demoHistory builds n trading days of steadily rising NAV starting at
// 1.0000 on the first weekday on or after start.
func demoHistory(n int, start time.Time) []chart.HistoryPoint {
	points := make([]chart.HistoryPoint, 0, n)
	step := decimal.New(1, -2)
	nav := decimal.NewFromInt(1)
	for day := start; len(points) < n; day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		points = append(points, chart.HistoryPoint{Date: day, NAV: nav})
		nav = nav.Add(step)
	}
	return points
}
