package preview

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/ironcoach/internal/builder"
	_ "modernc.org/sqlite"
)

// Cache persists the most recent constants snapshot per builder type so the
// mirror can compute between sessions without a network round-trip.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the SQLite snapshot cache at dir/constants.db.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "constants.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS constants_snapshots (
		builder_type TEXT PRIMARY KEY,
		version      TEXT NOT NULL,
		payload      TEXT NOT NULL,
		fetched_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Put stores a freshly fetched snapshot, replacing any prior one for the
// builder type.
func (c *Cache) Put(constants *builder.Constants) error {
	payload, err := json.Marshal(constants)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO constants_snapshots (builder_type, version, payload, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(builder_type) DO UPDATE SET
		   version = excluded.version, payload = excluded.payload, fetched_at = excluded.fetched_at`,
		constants.BuilderType, constants.Version, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	return nil
}

// Get returns the cached snapshot for a builder type, or (nil, nil) when
// none has been stored yet.
func (c *Cache) Get(builderType string) (*builder.Constants, error) {
	var payload string
	err := c.db.QueryRow(
		`SELECT payload FROM constants_snapshots WHERE builder_type = ?`, builderType,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var constants builder.Constants
	if err := json.Unmarshal([]byte(payload), &constants); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &constants, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}
