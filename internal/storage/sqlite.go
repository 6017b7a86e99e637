package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"vetremind/internal/model"
	"vetremind/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// SQLite implements Feedback backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writes serialized and :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Insert appends a submission and populates its ID and CreatedAt.
func (s *SQLite) Insert(ctx context.Context, f *model.Feedback) error {
	msg := strings.TrimSpace(f.Message)
	if msg == "" {
		return ErrEmptyMessage
	}
	name := strings.TrimSpace(f.Name)
	email := strings.TrimSpace(f.Email)

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (created_at, name, email, message) VALUES (?, ?, ?, ?)`,
		now, name, email, msg,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	f.Name, f.Email, f.Message = name, email, msg
	f.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// List returns up to limit entries, newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]model.Feedback, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, name, email, message FROM feedback ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var created string
		if err := rows.Scan(&f.ID, &created, &f.Name, &f.Email, &f.Message); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Delete removes the entry with the given id.
func (s *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}
