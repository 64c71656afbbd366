package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/shortlist/internal/filter"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the run log at path and applies migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == MemoryPath {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := NewWithDB(db, logger)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. Migrations are not applied.
func NewWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, logger: logger, now: time.Now}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run, assigning its ID and timestamp when unset.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) (Run, error) {
	if s.db == nil {
		return Run{}, fmt.Errorf("database not opened")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}

	filters, err := json.Marshal(run.Filters)
	if err != nil {
		return Run{}, fmt.Errorf("failed to encode filters: %w", err)
	}
	var leadCount sql.NullInt64
	if run.LeadCount != nil {
		leadCount = sql.NullInt64{Int64: int64(*run.LeadCount), Valid: true}
	}
	var errMsg sql.NullString
	if run.Error != "" {
		errMsg = sql.NullString{String: run.Error, Valid: true}
	}

	s.logger.Debug("recording run",
		slog.String("id", run.ID),
		slog.Int("active", run.ActiveCount),
		slog.Bool("allowed", run.Allowed))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shortlist_runs (id, filters, active_count, min_active, allowed, lead_count, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(filters), run.ActiveCount, run.MinActive, run.Allowed, leadCount, errMsg,
		run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filters, active_count, min_active, allowed, lead_count, error, created_at
		 FROM shortlist_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			filters   string
			leadCount sql.NullInt64
			errMsg    sql.NullString
			created   int64
		)
		if err := rows.Scan(&run.ID, &filters, &run.ActiveCount, &run.MinActive, &run.Allowed,
			&leadCount, &errMsg, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(filters), &run.Filters); err != nil {
			return nil, fmt.Errorf("failed to decode filters of run %s: %w", run.ID, err)
		}
		if leadCount.Valid {
			n := int(leadCount.Int64)
			run.LeadCount = &n
		}
		run.Error = errMsg.String
		run.CreatedAt = time.UnixMilli(created).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
