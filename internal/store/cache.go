// Package store provides a SQLite-backed cache for generated insight text.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultTTL is how long a cached response stays valid when none is given.
const DefaultTTL = 6 * time.Hour

// Cache provides SQLite-backed response caching.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates the cache database at the given path.
// A non-positive ttl selects DefaultTTL.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for key if it exists and has not expired.
func (c *Cache) Get(key string) (string, bool, error) {
	var body, created string
	err := c.db.QueryRow("SELECT body, created_at FROM insight_cache WHERE cache_key = ?", key).Scan(&body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}

	t, err := time.Parse(time.RFC3339, created)
	if err != nil || c.now().Sub(t) > c.ttl {
		return "", false, nil
	}
	return body, true, nil
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(key, provider, body string) error {
	now := c.now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(`INSERT OR REPLACE INTO insight_cache
		(cache_key, provider, body, created_at) VALUES (?, ?, ?, ?)`,
		key, provider, body, now,
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge() (int64, error) {
	cutoff := c.now().Add(-c.ttl).UTC().Format(time.RFC3339)
	res, err := c.db.Exec("DELETE FROM insight_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM insight_cache")
	return err
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries   int
	Providers map[string]int
	Oldest    time.Time
}

// Stats returns entry counts per provider.
func (c *Cache) Stats() (Stats, error) {
	st := Stats{Providers: make(map[string]int)}
	rows, err := c.db.Query("SELECT provider, COUNT(*), MIN(created_at) FROM insight_cache GROUP BY provider")
	if err != nil {
		return st, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var provider, oldest string
		var n int
		if err := rows.Scan(&provider, &n, &oldest); err != nil {
			return st, err
		}
		st.Providers[provider] = n
		st.Entries += n
		if t, err := time.Parse(time.RFC3339, oldest); err == nil {
			if st.Oldest.IsZero() || t.Before(st.Oldest) {
				st.Oldest = t
			}
		}
	}
	return st, rows.Err()
}
