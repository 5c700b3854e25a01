package backend

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(chart.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReadHistoryCSV(t *testing.T) {
	input := "date,nav\n" +
		"2024-01-03,1.0300\n" +
		"2024-01-02,1.0200\n" +
		"not-a-date,1.5\n" +
		"2024-01-04,abc\n" +
		"2024-01-02,1.0250\n" +
		"2024-01-05,1.05"
	points, err := ReadHistory(strings.NewReader(input), FormatCSV, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, date("2024-01-02"), points[0].Date)
	assert.Equal(t, "1.025", points[0].NAV.String())
	assert.Equal(t, date("2024-01-03"), points[1].Date)
	// The final row has no newline and is still the latest NAV.
	assert.Equal(t, date("2024-01-05"), points[2].Date)
	assert.Equal(t, "1.05", points[2].NAV.String())
}

func TestReadHistoryCSVTailing(t *testing.T) {
	input := "date,nav\n2024-01-02,1.00\n2024-01-03,1.2"
	points, held, err := readHistory(strings.NewReader(input), FormatCSV, zerolog.Nop(), true)
	require.NoError(t, err)
	assert.True(t, held)
	require.Len(t, points, 1)
	assert.Equal(t, date("2024-01-02"), points[0].Date)

	points, held, err = readHistory(strings.NewReader(input+"9\n"), FormatCSV, zerolog.Nop(), true)
	require.NoError(t, err)
	assert.False(t, held)
	require.Len(t, points, 2)
	assert.Equal(t, "1.29", points[1].NAV.String())
}

func TestReadHistoryCSVColumnOrder(t *testing.T) {
	input := "code,nav,date\n000001,2.5,2024-02-01\n"
	points, err := ReadHistory(strings.NewReader(input), FormatCSV, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, date("2024-02-01"), points[0].Date)
	assert.Equal(t, "2.5", points[0].NAV.String())
}

func TestReadHistoryJSON(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
	}{
		{name: "wrapped", input: `{"history":[{"date":"2024-01-02","nav":"1.0200"},{"date":"2024-01-01","nav":1.01}]}`},
		{name: "bare", input: ` [{"date":"2024-01-02T00:00:00Z","nav":"1.02"},{"date":"2024-01-01","nav":"1.01"}]`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			points, err := ReadHistory(strings.NewReader(tc.input), FormatJSON, zerolog.Nop())
			require.NoError(t, err)
			require.Len(t, points, 2)
			assert.Equal(t, date("2024-01-01"), points[0].Date)
			assert.True(t, points[0].NAV.Equal(decimal.RequireFromString("1.01")))
			assert.True(t, points[1].NAV.Equal(decimal.RequireFromString("1.02")))
		})
	}
}

func TestReadHistoryJSONBadDate(t *testing.T) {
	_, err := ReadHistory(strings.NewReader(`{"history":[{"date":"yesterday","nav":"1"}]}`), FormatJSON, zerolog.Nop())
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("/tmp/FUND.JSON"))
	assert.Equal(t, FormatCSV, FormatFor("fund.csv"))
	assert.Equal(t, FormatCSV, FormatFor("fund"))
}

func TestSniffFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, SniffFormat(bufio.NewReader(strings.NewReader("\n  {\"history\":[]}"))))
	assert.Equal(t, FormatCSV, SniffFormat(bufio.NewReader(strings.NewReader("date,nav\n"))))
	assert.Equal(t, FormatCSV, SniffFormat(bufio.NewReader(strings.NewReader(""))))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	points := []chart.HistoryPoint{
		{Date: date("2024-01-01"), NAV: decimal.RequireFromString("1.23456")},
		{Date: date("2024-01-02"), NAV: decimal.RequireFromString("1.3")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))
	assert.Equal(t, "date,nav\n2024-01-01,1.23456\n2024-01-02,1.3\n", buf.String())

	back, err := ReadHistory(&buf, FormatCSV, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.True(t, back[0].NAV.Equal(points[0].NAV))
}
