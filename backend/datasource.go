package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gioui.org/x/explorer"
	"github.com/fsnotify/fsnotify"
	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/rs/zerolog"
)

// Source says where a history comes from. Path wins over SQLitePath.
type Source struct {
	Path       string
	SQLitePath string
	Code       string
	// Name labels sources read once without a path, such as picked files.
	Name string
}

func (s Source) String() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.SQLitePath != "":
		return s.SQLitePath + "#" + s.Code
	case s.Name != "":
		return s.Name
	default:
		return "none"
	}
}

// Load is one delivery of history to the UI. Loading is set while a load
// is in flight; otherwise History is complete or Err says why it is not.
type Load struct {
	Source  Source
	History []chart.HistoryPoint
	Loading bool
	Err     error
	// Seq numbers complete loads from 1, so readers can tell a fresh load
	// from one they have already applied.
	Seq uint64
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type sourceState struct {
	source Source
	// inline is history handed over directly, for picked files that have
	// no path to watch.
	inline []chart.HistoryPoint
	// changed is closed and replaced whenever the source changes.
	changed chan struct{}
}

// Datasource loads complete histories and reloads them when their file
// changes or a different source is opened.
type Datasource struct {
	state RWBox[sourceState]
	log   zerolog.Logger
	// settle debounces bursts of file events from a single save.
	settle time.Duration
}

func NewDatasource(src Source, log zerolog.Logger) *Datasource {
	d := &Datasource{
		log:    log.With().Str("component", "datasource").Logger(),
		settle: 100 * time.Millisecond,
	}
	d.state.Write(func(s *sourceState) {
		s.source = src
		s.changed = make(chan struct{})
	})
	return d
}

// Open switches to the history file at path.
func (d *Datasource) Open(path string) {
	d.state.Write(func(s *sourceState) {
		s.source = Source{Path: path}
		s.inline = nil
		close(s.changed)
		s.changed = make(chan struct{})
	})
}

// LoadFromFile lets the user pick a history file. Files with a name on disk
// are opened and watched; anything else is read once.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) error {
	file, err := expl.ChooseFile(".csv", ".json")
	if err != nil {
		return err
	}
	defer file.Close()
	name := "picked file"
	if f, ok := file.(interface{ Name() string }); ok {
		if _, err := os.Stat(f.Name()); err == nil {
			d.Open(f.Name())
			return nil
		}
		name = filepath.Base(f.Name())
	}
	br := bufio.NewReader(file)
	points, err := ReadHistory(br, SniffFormat(br), d.log)
	if err != nil {
		return err
	}
	d.state.Write(func(s *sourceState) {
		s.source = Source{Name: name}
		s.inline = points
		close(s.changed)
		s.changed = make(chan struct{})
	})
	return nil
}

// History streams loads until ctx is done. Each (re)load first emits a
// Loading marker and then the finished Load.
func (d *Datasource) History(ctx context.Context) <-chan Load {
	out := make(chan Load, 1)
	go func() {
		defer close(out)
		send := func(l Load) bool {
			select {
			case out <- l:
				return true
			case <-ctx.Done():
				return false
			}
		}
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			d.log.Warn().Err(err).Msg("file watching disabled")
		} else {
			defer watcher.Close()
		}
		var (
			watchedDir string
			seq        uint64
			// tailing is set for reloads caused by writes to the file,
			// which may still be in progress.
			tailing bool
		)
		for {
			var (
				src     Source
				inline  []chart.HistoryPoint
				changed chan struct{}
			)
			d.state.Read(func(s *sourceState) {
				src, inline, changed = s.source, s.inline, s.changed
			})
			var events <-chan fsnotify.Event
			var errs <-chan error
			if watcher != nil {
				dir := ""
				if src.Path != "" {
					dir = filepath.Dir(src.Path)
				}
				if dir != watchedDir {
					if watchedDir != "" {
						_ = watcher.Remove(watchedDir)
					}
					watchedDir = ""
					if dir != "" {
						if err := watcher.Add(dir); err != nil {
							d.log.Warn().Err(err).Str("dir", dir).Msg("cannot watch history directory")
						} else {
							watchedDir = dir
						}
					}
				}
				events, errs = watcher.Events, watcher.Errors
			}
			if !send(Load{Source: src, Loading: true}) {
				return
			}
			var (
				load Load
				held bool
			)
			if inline != nil {
				load = Load{Source: src, History: inline}
			} else {
				load, held = d.load(ctx, src, tailing)
			}
			seq++
			load.Seq = seq
			if load.Err != nil {
				d.log.Error().Err(load.Err).Stringer("source", src).Msg("failed loading history")
			} else {
				d.log.Info().Stringer("source", src).Int("points", len(load.History)).Msg("history loaded")
			}
			if !send(load) {
				return
			}

			// A held tail is read in full once the file stops changing.
			var (
				settle <-chan time.Time
				timer  *time.Timer
			)
			if held {
				d.log.Debug().Stringer("source", src).Msg("history has an unterminated last row")
				timer = time.NewTimer(d.settle)
				settle = timer.C
			}
			woke := d.wait(ctx, src, changed, events, errs, settle)
			if timer != nil {
				timer.Stop()
			}
			switch woke {
			case wakeDone:
				return
			case wakeFileChanged:
				tailing = true
			default:
				tailing = false
			}
		}
	}()
	return out
}

type wake uint8

const (
	wakeDone wake = iota
	wakeSourceChanged
	wakeFileChanged
	wakeSettled
)

// wait blocks until the source should be reloaded and says why.
func (d *Datasource) wait(ctx context.Context, src Source, changed <-chan struct{}, events <-chan fsnotify.Event, errs <-chan error, settle <-chan time.Time) wake {
	target := filepath.Clean(src.Path)
	for {
		select {
		case <-ctx.Done():
			return wakeDone
		case <-changed:
			return wakeSourceChanged
		case <-settle:
			return wakeSettled
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if src.Path == "" || filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer := time.NewTimer(d.settle)
			select {
			case <-ctx.Done():
				timer.Stop()
				return wakeDone
			case <-timer.C:
			}
			drain(events)
			return wakeFileChanged
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			d.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (d *Datasource) load(ctx context.Context, src Source, tailing bool) (load Load, held bool) {
	load.Source = src
	switch {
	case src.Path != "":
		load.History, held, load.Err = d.loadFile(src.Path, tailing)
	case src.SQLitePath != "":
		load.History, load.Err = loadSQLite(ctx, src.SQLitePath, src.Code)
	default:
		load.Err = ErrNoSource
	}
	return load, held
}

// ErrNoSource means no history source has been configured yet.
var ErrNoSource = errors.New("no history source configured")

func (d *Datasource) loadFile(path string, tailing bool) ([]chart.HistoryPoint, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed opening history: %w", err)
	}
	defer f.Close()
	return readHistory(f, FormatFor(path), d.log, tailing)
}

func loadSQLite(ctx context.Context, path, code string) (_ []chart.HistoryPoint, err error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	return store.History(ctx, code)
}

// ReadAll is a convenience for one-shot loads outside the UI.
func ReadAll(ctx context.Context, src Source, log zerolog.Logger) ([]chart.HistoryPoint, error) {
	d := &Datasource{log: log}
	load, _ := d.load(ctx, src, false)
	return load.History, load.Err
}
