package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store persists NAV histories in SQLite, keyed by fund code.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenStore opens (or creates) the database at path and runs migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Join(fmt.Errorf("set WAL mode: %w", err), db.Close())
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), db.Close())
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS nav_history (
			code TEXT NOT NULL,
			date TEXT NOT NULL,
			nav  TEXT NOT NULL,
			PRIMARY KEY (code, date)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Upsert writes points for code, replacing the NAV of dates already stored.
func (s *Store) Upsert(ctx context.Context, code string, points []chart.HistoryPoint) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nav_history (code, date, nav) VALUES (?, ?, ?)
		ON CONFLICT (code, date) DO UPDATE SET nav = excluded.nav`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, code, p.Date.Format(chart.DateLayout), p.NAV.String()); err != nil {
			return fmt.Errorf("upsert %s %s: %w", code, p.Date.Format(chart.DateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// History returns the stored history of code in date order.
func (s *Store) History(ctx context.Context, code string) ([]chart.HistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, nav FROM nav_history WHERE code = ? ORDER BY date`, code)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	var points []chart.HistoryPoint
	for rows.Next() {
		var date, nav string
		if err := rows.Scan(&date, &nav); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		d, err := ParseDate(date)
		if err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(nav)
		if err != nil {
			return nil, fmt.Errorf("nav for %s on %s: %w", code, date, err)
		}
		points = append(points, chart.HistoryPoint{Date: d, NAV: v})
	}
	return points, rows.Err()
}

// Codes lists the fund codes that have stored history.
func (s *Store) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT code FROM nav_history ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query codes: %w", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
