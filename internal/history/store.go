// Package history records which paths opener handed to a viewer, in a local
// SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/opener/internal/filelock"
	"github.com/harrison/opener/internal/pathutil"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Entry is one recorded opening.
type Entry struct {
	ID        string
	Root      string
	Candidate string
	Program   string
	ExitCode  int
	Removed   bool
	OpenedAt  time.Time
}

// Path returns the absolute path the entry refers to.
func (e Entry) Path() string {
	return pathutil.Resolve(e.Root, e.Candidate)
}

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}

	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == MemoryPath {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must come first so the others wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts entry, assigning an ID and timestamp when they are unset.
// The returned ID identifies the row.
func (s *Store) Record(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.OpenedAt.IsZero() {
		entry.OpenedAt = time.Now()
	}

	query := `INSERT INTO openings (id, root, candidate, program, exit_code, removed, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	err := s.withLock(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query,
			entry.ID,
			entry.Root,
			entry.Candidate,
			entry.Program,
			entry.ExitCode,
			entry.Removed,
			entry.OpenedAt.UTC(),
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("insert opening: %w", err)
	}
	return entry.ID, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	// rowid follows insertion order, which is also chronological.
	query := `SELECT id, root, candidate, program, exit_code, removed, opened_at
		FROM openings ORDER BY rowid DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query openings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Root, &e.Candidate, &e.Program, &e.ExitCode, &e.Removed, &e.OpenedAt); err != nil {
			return nil, fmt.Errorf("scan opening: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate openings: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.withLock(ctx, func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM openings`)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear openings: %w", err)
	}
	return deleted, nil
}

// withLock serializes writers from concurrent opener processes.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	if s.dbPath == MemoryPath {
		return fn()
	}
	return filelock.WithLock(ctx, s.dbPath, fn)
}
