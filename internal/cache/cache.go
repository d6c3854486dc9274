// Package cache implements a cross-run cache of rendered output,
// keyed by a hash of the input file paths and their contents, so that
// re-running this program over an unchanged project replays the
// previous run's output and skips parsing, constraint generation,
// solving and planning entirely. Built on the same database/sql
// usage pattern as internal/stdlib/database/drivers.go, backed by
// modernc.org/sqlite's pure-Go driver rather than a cgo one.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// Cache wraps a single sqlite database file holding, under each run
// key, one row per rewritten file with its rendered source (a single
// empty-path row when the run rewrote nothing), so a second run
// with identical inputs can replay the output without re-solving.
type Cache struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates (or reuses) the sqlite database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_key TEXT NOT NULL,
		file_path TEXT NOT NULL,
		rendered TEXT NOT NULL,
		PRIMARY KEY (run_key, file_path)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes a sorted file-path -> content map into a stable run key.
// Sorting the paths first is what makes the hash independent of the
// order the driver happened to discover files on disk.
func Key(contents map[string]string) string {
	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(contents[p]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached rendered output for runKey, or ok=false
// on a cache miss. The empty-path row of a run that rewrote nothing
// counts as a hit and is left out of the returned map.
func (c *Cache) Lookup(runKey string) (map[string]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`SELECT file_path, rendered FROM runs WHERE run_key = ?`, runKey)
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var path, rendered string
		if err := rows.Scan(&path, &rendered); err != nil {
			return nil, false, fmt.Errorf("scanning cache row: %w", err)
		}
		out[path] = rendered
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	delete(out, "")
	return out, true, nil
}

// Store records this run's rendered output under runKey.
func (c *Cache) Store(runKey string, rendered map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache write: %w", err)
	}
	if len(rendered) == 0 {
		rendered = map[string]string{"": ""}
	}
	for path, text := range rendered {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO runs (run_key, file_path, rendered) VALUES (?, ?, ?)`, runKey, path, text); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing cache row: %w", err)
		}
	}
	return tx.Commit()
}
