package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func next(t *testing.T, loads <-chan Load) Load {
	t.Helper()
	select {
	case l, ok := <-loads:
		require.True(t, ok, "history stream closed")
		return l
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a history load")
		return Load{}
	}
}

// complete skips loading markers.
func complete(t *testing.T, loads <-chan Load) Load {
	t.Helper()
	for {
		if l := next(t, loads); !l.Loading {
			return l
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDatasourceLoadsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fund.csv")
	writeFile(t, path, "date,nav\n2024-01-01,1.00\n2024-01-02,1.01\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ds := NewDatasource(Source{Path: path}, nopLogger())
	loads := ds.History(ctx)

	first := next(t, loads)
	assert.True(t, first.Loading)
	assert.Equal(t, path, first.Source.Path)

	l := next(t, loads)
	require.NoError(t, l.Err)
	assert.False(t, l.Loading)
	assert.Len(t, l.History, 2)

	writeFile(t, path, "date,nav\n2024-01-01,1.00\n2024-01-02,1.01\n2024-01-03,1.02\n")
	l = complete(t, loads)
	require.NoError(t, l.Err)
	assert.Len(t, l.History, 3)
}

func TestDatasourceOpenSwitchesSource(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, "date,nav\n2024-01-01,1.00\n")
	writeFile(t, b, `{"history":[{"date":"2024-01-01","nav":"2"},{"date":"2024-01-02","nav":"2.1"}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ds := NewDatasource(Source{Path: a}, nopLogger())
	loads := ds.History(ctx)
	l := complete(t, loads)
	require.Len(t, l.History, 1)

	ds.Open(b)
	l = complete(t, loads)
	require.NoError(t, l.Err)
	assert.Equal(t, b, l.Source.Path)
	assert.Len(t, l.History, 2)
}

func TestDatasourceErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := complete(t, NewDatasource(Source{}, nopLogger()).History(ctx))
	assert.ErrorIs(t, l.Err, ErrNoSource)

	l = complete(t, NewDatasource(Source{Path: filepath.Join(t.TempDir(), "missing.csv")}, nopLogger()).History(ctx))
	assert.ErrorIs(t, l.Err, os.ErrNotExist)
}

func TestDatasourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loads := NewDatasource(Source{}, nopLogger()).History(ctx)
	complete(t, loads)
	cancel()
	select {
	case _, ok := <-loads:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("history stream did not close")
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "none", Source{}.String())
	assert.Equal(t, "nav.db#000001", Source{SQLitePath: "nav.db", Code: "000001"}.String())
	assert.Equal(t, "picked.csv", Source{Name: "picked.csv"}.String())
}

func TestDatasourceNumbersLoads(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	writeFile(t, a, "date,nav\n2024-01-01,1.00\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ds := NewDatasource(Source{Path: a}, nopLogger())
	loads := ds.History(ctx)
	first := complete(t, loads)
	ds.Open(a)
	second := complete(t, loads)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestReadAllKeepsUnterminatedLastRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fund.csv")
	writeFile(t, path, "date,nav\n2024-01-02,1.00\n2024-01-03,1.29")
	points, err := ReadAll(context.Background(), Source{Path: path}, nopLogger())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, date("2024-01-03"), points[1].Date)
	assert.Equal(t, "1.29", points[1].NAV.String())
}

func TestDatasourceReloadSettlesOnUnterminatedRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fund.csv")
	writeFile(t, path, "date,nav\n2024-01-01,1.00\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loads := NewDatasource(Source{Path: path}, nopLogger()).History(ctx)
	require.Len(t, complete(t, loads).History, 1)

	writeFile(t, path, "date,nav\n2024-01-01,1.00\n2024-01-02,1.29")
	for {
		l := complete(t, loads)
		require.NoError(t, l.Err)
		if len(l.History) == 2 {
			assert.Equal(t, "1.29", l.History[1].NAV.String())
			return
		}
		assert.Len(t, l.History, 1)
	}
}
