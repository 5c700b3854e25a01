package backend

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Format identifies a history file encoding.
type Format uint8

const (
	FormatCSV Format = iota
	FormatJSON
)

// FormatFor guesses the format from a file name.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns
// the calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(chart.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ReadHistory decodes a complete history in the given format. Malformed
// rows are skipped and logged; an unterminated final row is parsed as the
// last record.
func ReadHistory(r io.Reader, format Format, log zerolog.Logger) ([]chart.HistoryPoint, error) {
	points, _, err := readHistory(r, format, log, false)
	return points, err
}

// readHistory decodes a history. With tailing set, an unterminated final
// CSV row is treated as still being written: it is left out and held
// reports that the caller should read again once the file settles.
func readHistory(r io.Reader, format Format, log zerolog.Logger, tailing bool) (points []chart.HistoryPoint, held bool, err error) {
	switch format {
	case FormatJSON:
		points, err = readJSON(r)
	default:
		points, held, err = readCSV(r, log, tailing)
	}
	if err != nil {
		return nil, false, err
	}
	return Normalize(points), held, nil
}

// SniffFormat peeks at r to tell JSON from CSV for sources without a name.
func SniffFormat(r *bufio.Reader) Format {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return FormatCSV
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = r.ReadByte()
		case '{', '[':
			return FormatJSON
		default:
			return FormatCSV
		}
	}
}

func readCSV(r io.Reader, log zerolog.Logger, tailing bool) ([]chart.HistoryPoint, bool, error) {
	lines := newFinalLineReader(r)
	if tailing {
		lines = NewLineReader(r)
	}
	csvReader := csv.NewReader(lines)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	dateCol, navCol := 0, 1
	var points []chart.HistoryPoint
	for line := 1; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, false, fmt.Errorf("failed reading CSV history: %w", err)
		}
		if line == 1 && isHeader(rec) {
			for i, heading := range rec {
				switch strings.ToLower(strings.TrimSpace(heading)) {
				case "date":
					dateCol = i
				case "nav":
					navCol = i
				}
			}
			continue
		}
		if len(rec) <= max(dateCol, navCol) {
			log.Warn().Int("line", line).Msg("skipping short history row")
			continue
		}
		date, err := ParseDate(rec[dateCol])
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping history row")
			continue
		}
		nav, err := decimal.NewFromString(strings.TrimSpace(rec[navCol]))
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping history row")
			continue
		}
		points = append(points, chart.HistoryPoint{Date: date, NAV: nav})
	}
	return points, lines.Held(), nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := ParseDate(rec[0])
	return err != nil
}

type jsonPoint struct {
	Date string          `json:"date"`
	NAV  decimal.Decimal `json:"nav"`
}

type jsonHistory struct {
	History []jsonPoint `json:"history"`
}

func readJSON(r io.Reader) ([]chart.HistoryPoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed reading JSON history: %w", err)
	}
	var raw []jsonPoint
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &raw)
	} else {
		var wrapped jsonHistory
		err = json.Unmarshal(data, &wrapped)
		raw = wrapped.History
	}
	if err != nil {
		return nil, fmt.Errorf("failed decoding JSON history: %w", err)
	}
	points := make([]chart.HistoryPoint, 0, len(raw))
	for i, p := range raw {
		date, err := ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}
		points = append(points, chart.HistoryPoint{Date: date, NAV: p.NAV})
	}
	return points, nil
}

// WriteCSV encodes points in the format ReadHistory accepts.
func WriteCSV(w io.Writer, points []chart.HistoryPoint) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write([]string{"date", "nav"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := csvWriter.Write([]string{p.Date.Format(chart.DateLayout), p.NAV.String()}); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// Normalize sorts points by date and keeps the last value seen for any
// repeated date.
func Normalize(points []chart.HistoryPoint) []chart.HistoryPoint {
	slices.SortStableFunc(points, func(a, b chart.HistoryPoint) int {
		return a.Date.Compare(b.Date)
	})
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
