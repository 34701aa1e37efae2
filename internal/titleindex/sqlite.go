package titleindex

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteIndex implements Index on a sqlite database.
type SQLiteIndex struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewSQLiteIndex opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	// Every pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	idx := &SQLiteIndex{db: db}
	if err := idx.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrSchemaFailed, err)
	}
	return idx, nil
}

func (s *SQLiteIndex) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS page_titles (
		name TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteIndex) Put(ctx context.Context, name, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrIndexClosed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_titles (name, title, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		name, title, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (s *SQLiteIndex) Title(ctx context.Context, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrIndexClosed
	}

	var title string
	err := s.db.QueryRowContext(ctx, "SELECT title FROM page_titles WHERE name = ?", name).Scan(&title)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return title, true, nil
}

func (s *SQLiteIndex) All(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrIndexClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, title FROM page_titles ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, title string
		if err := rows.Scan(&name, &title); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		out[name] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return out, nil
}

// Close closes the database connection. Closing twice is a no-op.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
