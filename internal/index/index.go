// Package index keeps a SQLite catalogue of saved artifacts. The markdown
// files stay the source of truth; every row can be rebuilt with Reindex.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Entry is one indexed artifact.
type Entry struct {
	ID        string        `json:"id"`
	Kind      artifact.Kind `json:"kind"`
	Slug      string        `json:"slug"`
	Version   int           `json:"version"`
	Title     string        `json:"title"`
	Path      string        `json:"path"`
	CreatedAt string        `json:"created_at"`
}

// ListResult is the output of List.
type ListResult struct {
	Artifacts []Entry `json:"artifacts"`
	Total     int     `json:"total"`
}

// Index is a SQLite-backed artifact catalogue. It implements artifact.Recorder.
type Index struct {
	db *sql.DB
}

var _ artifact.Recorder = (*Index)(nil)

// Open opens (or creates) the index database at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("index: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: init schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		slug       TEXT NOT NULL,
		version    INTEGER NOT NULL,
		title      TEXT NOT NULL,
		path       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS artifacts_kind_created ON artifacts (kind, created_at)`)
	return err
}

// Record inserts s, or refreshes the row already stored for its path.
func (ix *Index) Record(ctx context.Context, s artifact.Saved) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, kind, slug, version, title, path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   kind = excluded.kind, slug = excluded.slug, version = excluded.version,
		   title = excluded.title, created_at = excluded.created_at`,
		uuid.NewString(), string(s.Kind), s.Slug, s.Version, s.Title, s.Path,
		s.Created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("index: record %s: %w", s.Path, err)
	}
	return nil
}

// Forget drops the row of a deleted file.
func (ix *Index) Forget(ctx context.Context, path string) error {
	_, err := ix.db.ExecContext(ctx, `DELETE FROM artifacts WHERE path = ?`, path)
	return err
}

// List returns the newest artifacts first, optionally filtered by kind.
func (ix *Index) List(ctx context.Context, kind artifact.Kind, limit int) (*ListResult, error) {
	switch kind {
	case "", artifact.KindResearch, artifact.KindQuery:
	default:
		return nil, fmt.Errorf("index: invalid kind %q (valid: %s, %s)", kind, artifact.KindResearch, artifact.KindQuery)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	const cols = `SELECT id, kind, slug, version, title, path, created_at FROM artifacts`
	var rows *sql.Rows
	var err error
	if kind != "" {
		rows, err = ix.db.QueryContext(ctx, cols+` WHERE kind = ? ORDER BY created_at DESC, version DESC LIMIT ?`, string(kind), limit)
	} else {
		rows, err = ix.db.QueryContext(ctx, cols+` ORDER BY created_at DESC, version DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()

	out := &ListResult{Artifacts: []Entry{}}
	for rows.Next() {
		var e Entry
		var k string
		if err := rows.Scan(&e.ID, &k, &e.Slug, &e.Version, &e.Title, &e.Path, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("index: scan: %w", err)
		}
		e.Kind = artifact.Kind(k)
		out.Artifacts = append(out.Artifacts, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	out.Total = len(out.Artifacts)
	return out, nil
}

// createdAt parses a front-matter created value, written in local time.
func createdAt(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05.999999", s, time.Local)
}
