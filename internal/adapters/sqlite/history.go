// Package sqlite keeps a local history of published posts.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bft-labs/chainreport/internal/domain"
)

// HistoryStore implements ports.HistoryStore on a SQLite file.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and creates if needed) the history database at path.
func OpenHistory(ctx context.Context, path string) (*HistoryStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// one writer; avoids SQLITE_BUSY on the shared file
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	s := &HistoryStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *HistoryStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id    TEXT NOT NULL,
		position  INTEGER NOT NULL,
		post_id   TEXT NOT NULL,
		reply_to  TEXT NOT NULL DEFAULT '',
		text      TEXT NOT NULL,
		posted_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_run ON posts(run_id, position);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Append records entries in a single transaction.
func (s *HistoryStore) Append(ctx context.Context, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (run_id, position, post_id, reply_to, text, posted_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.RunID, e.Position, e.PostID, e.ReplyTo, e.Text, e.PostedAt.UnixMilli()); err != nil {
			return fmt.Errorf("insert post %s: %w", e.PostID, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, position, post_id, reply_to, text, posted_at FROM posts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			e  domain.HistoryEntry
			ms int64
		)
		if err := rows.Scan(&e.RunID, &e.Position, &e.PostID, &e.ReplyTo, &e.Text, &ms); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.PostedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
