package offline

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS responses (
	generation TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	status     INTEGER NOT NULL,
	header     TEXT    NOT NULL,
	body       BLOB    NOT NULL,
	stored_at  INTEGER NOT NULL,
	PRIMARY KEY (generation, key)
)`

// Response is a stored HTTP response.
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Cache holds responses grouped into named generations. It lives in its own
// database so the proxy shares nothing with the client process.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the response cache at dsn.
func OpenCache(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		cacheSchema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("prepare response cache: %w", err)
		}
	}
	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores resp under key in generation, replacing any earlier copy.
func (c *Cache) Put(ctx context.Context, generation, key string, resp *Response) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (generation, key, status, header, body, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		generation, key, resp.Status, string(header), resp.Body, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Match returns the response stored under key in generation, or nil.
func (c *Cache) Match(ctx context.Context, generation, key string) (*Response, error) {
	var (
		resp     Response
		header   string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT status, header, body, stored_at FROM responses WHERE generation = ? AND key = ?`,
		generation, key).Scan(&resp.Status, &header, &resp.Body, &storedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(header), &resp.Header); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	resp.StoredAt = time.UnixMilli(storedAt)
	return &resp, nil
}

// Generations lists the generation names present, sorted.
func (c *Cache) Generations(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT generation FROM responses ORDER BY generation`)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// DeleteGeneration removes every response in generation.
func (c *Cache) DeleteGeneration(ctx context.Context, generation string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE generation = ?`, generation); err != nil {
		return fmt.Errorf("delete generation %s: %w", generation, err)
	}
	return nil
}
