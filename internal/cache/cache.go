// Package cache stores derived files in a SQLite database so that
// unchanged types are not derived again.
// The cache key is a hash of the type's configuration, the output
// settings, the selected backends and the codegen version.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/pipeline"
)

// codegenVersion is bumped when the generated code format changes.
// This ensures stale cached entries are derived again.
const codegenVersion = "v1"

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	key TEXT NOT NULL UNIQUE,
	type_name TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	filename TEXT NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (entry_id, filename)
);
CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(type_name);
`

// Cache is a derivation cache backed by one SQLite file.
type Cache struct {
	db   *sql.DB
	path string
}

// Stats summarises the cache contents.
type Stats struct {
	Path    string
	Entries int
	Files   int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// SQLite allows one writer; derivations run in parallel.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing cache %s: %w", path, err)
		}
	}
	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file.
func (c *Cache) Path() string { return c.path }

// Key computes the cache key for deriving spec with the given settings.
// Source positions are not part of the key.
func Key(cfg *config.Config, spec *config.TypeSpec, backends []string) (string, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", spec.Name, err)
	}

	h := sha256.New()
	h.Write(data)
	h.Write([]byte("\x00"))
	h.Write([]byte(cfg.Package))
	h.Write([]byte("\x00"))
	h.Write([]byte(cfg.TextExt))
	for _, b := range backends {
		h.Write([]byte("\x00"))
		h.Write([]byte(b))
	}

	// Include the version of the codegen (so cache invalidates on updates)
	h.Write([]byte("\x00"))
	h.Write([]byte(codegenVersion))

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Lookup returns the files stored under key.
func (c *Cache) Lookup(ctx context.Context, key string) ([]pipeline.GeneratedFile, bool, error) {
	var id string
	err := c.db.QueryRowContext(ctx, `SELECT id FROM entries WHERE key = ?`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT filename, content FROM files WHERE entry_id = ? ORDER BY filename`, id)
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	defer rows.Close()

	var files []pipeline.GeneratedFile
	for rows.Next() {
		var f pipeline.GeneratedFile
		if err := rows.Scan(&f.Filename, &f.Content); err != nil {
			return nil, false, fmt.Errorf("cache lookup: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	return files, true, nil
}

// Store replaces the entry for key with files.
func (c *Cache) Store(ctx context.Context, key, typeName string, files []pipeline.GeneratedFile) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE entry_id IN (SELECT id FROM entries WHERE key = ?)`, key); err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache store: %w", err)
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, key, type_name, created_at) VALUES (?, ?, ?, ?)`,
		id, key, typeName, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	for _, f := range files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO files (entry_id, filename, content) VALUES (?, ?, ?)`,
			id, f.Filename, f.Content); err != nil {
			return fmt.Errorf("cache store %s: %w", f.Filename, err)
		}
	}
	return tx.Commit()
}

// Clean removes every entry and returns how many were removed.
func (c *Cache) Clean(ctx context.Context) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("cache clean: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return 0, fmt.Errorf("cache clean: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("cache clean: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache clean: %w", err)
	}
	return n, tx.Commit()
}

// Stats reports entry and file counts, stored bytes and the age range.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Path: c.path}
	var oldest, newest sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM entries`).Scan(&st.Entries, &oldest, &newest)
	if err != nil {
		return st, fmt.Errorf("cache stats: %w", err)
	}
	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(content AS BLOB))), 0) FROM files`).Scan(&st.Files, &st.Bytes)
	if err != nil {
		return st, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		st.Oldest = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		st.Newest = time.Unix(0, newest.Int64)
	}
	return st, nil
}
