// Package store persists analysis runs and the symbols injected during
// each run to a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Run is one completed analysis of a project.
type Run struct {
	ID            string
	ProjectKey    string
	Timestamp     time.Time
	ModelCount    int
	PassCount     int
	DeferralCount int
	InjectedCount int
}

// InjectedSymbol records a single member added to a model class.
type InjectedSymbol struct {
	RunID         string
	ModelFullname string
	Name          string
	Type          string
	Injector      string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun stores the run and its injected symbols in one transaction.
func (s *Store) SaveRun(run Run, symbols []InjectedSymbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	if strings.TrimSpace(run.ProjectKey) == "" {
		run.ProjectKey = "default"
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	return s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
INSERT INTO runs (run_id, project_key, ts_utc, model_count, pass_count, deferral_count, injected_count)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
			run.ID,
			run.ProjectKey,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.ModelCount,
			run.PassCount,
			run.DeferralCount,
			run.InjectedCount,
		); err != nil {
			_ = tx.Rollback()
			return err
		}

		for _, sym := range symbols {
			if _, err := tx.Exec(`
INSERT INTO injected_symbols (run_id, model_fullname, symbol_name, symbol_type, injector)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(run_id, model_fullname, symbol_name) DO UPDATE SET
  symbol_type=excluded.symbol_type,
  injector=excluded.injector
`,
				run.ID, sym.ModelFullname, sym.Name, sym.Type, sym.Injector,
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}

		return tx.Commit()
	})
}

// Runs returns the runs for a project, newest first, capped at limit
// (limit <= 0 means no cap).
func (s *Store) Runs(projectKey string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT run_id, project_key, ts_utc, model_count, pass_count, deferral_count, injected_count
FROM runs
WHERE project_key = ?
ORDER BY ts_utc DESC
`
	args := []any{projectKey}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			tsRaw string
			run   Run
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&tsRaw,
			&run.ModelCount,
			&run.PassCount,
			&run.DeferralCount,
			&run.InjectedCount,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// SymbolsForRun returns the symbols injected during one run, ordered by
// model then symbol name.
func (s *Store) SymbolsForRun(runID string) ([]InjectedSymbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load symbols", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, model_fullname, symbol_name, symbol_type, injector
FROM injected_symbols
WHERE run_id = ?
ORDER BY model_fullname ASC, symbol_name ASC
`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := make([]InjectedSymbol, 0)
	for rows.Next() {
		var sym InjectedSymbol
		if err := rows.Scan(&sym.RunID, &sym.ModelFullname, &sym.Name, &sym.Type, &sym.Injector); err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol rows: %w", err)
	}

	return symbols, nil
}

// SymbolHistory returns the most recent recorded type for each symbol of
// a model across all runs, newest run first.
func (s *Store) SymbolHistory(modelFullname string, limit int) ([]InjectedSymbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT i.run_id, i.model_fullname, i.symbol_name, i.symbol_type, i.injector
FROM injected_symbols i
JOIN runs r ON r.run_id = i.run_id
WHERE i.model_fullname = ?
ORDER BY r.ts_utc DESC, i.symbol_name ASC
`
	args := []any{modelFullname}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load symbol history", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := make([]InjectedSymbol, 0)
	for rows.Next() {
		var sym InjectedSymbol
		if err := rows.Scan(&sym.RunID, &sym.ModelFullname, &sym.Name, &sym.Type, &sym.Injector); err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol rows: %w", err)
	}

	return symbols, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
