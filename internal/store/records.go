package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnindexedField    = errors.New("field is not indexed")
)

// Record is a stored document with its bookkeeping fields.
type Record struct {
	Collection Collection
	Key        string
	Value      json.RawMessage
	UpdatedAt  time.Time
}

// Decode unmarshals the record value into v.
func (r *Record) Decode(v any) error {
	if err := json.Unmarshal(r.Value, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", r.Collection, r.Key, err)
	}
	return nil
}

func checkCollection(c Collection) error {
	if _, ok := collections[c]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return nil
}

// Put upserts value under key, replacing any existing record.
func (s *Store) Put(ctx context.Context, c Collection, key string, value any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", c, key, err)
	}

	fields := indexFields(c)
	cols := []string{"key", "value", "updated_at"}
	args := []any{key, string(data), time.Now().UnixMilli()}
	for _, f := range fields {
		cols = append(cols, indexColumn(f))
		res := gjson.GetBytes(data, collections[c][f])
		if res.Exists() {
			args = append(args, res.String())
		} else {
			args = append(args, nil)
		}
	}

	updates := make([]string, 0, len(cols)-1)
	for _, col := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(key) DO UPDATE SET %s",
		c, strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "))
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %s/%s: %w", c, key, err)
	}
	return nil
}

// Get returns the record stored under key, or nil if none exists.
func (s *Store) Get(ctx context.Context, c Collection, key string) (*Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var (
		value     string
		updatedAt int64
	)
	err = db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value, updated_at FROM %s WHERE key = ?", c), key,
	).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c, key, err)
	}

	return &Record{
		Collection: c,
		Key:        key,
		Value:      json.RawMessage(value),
		UpdatedAt:  time.UnixMilli(updatedAt),
	}, nil
}

// GetAllByIndex returns every record whose indexed field equals value,
// ordered by key.
func (s *Store) GetAllByIndex(ctx context.Context, c Collection, field, value string) ([]Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	if _, ok := collections[c][field]; !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnindexedField, c, field)
	}
	return s.query(ctx, c,
		fmt.Sprintf("SELECT key, value, updated_at FROM %s WHERE %s = ? ORDER BY key", c, indexColumn(field)),
		value)
}

// All returns every record in the collection, ordered by key.
func (s *Store) All(ctx context.Context, c Collection) ([]Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	return s.query(ctx, c, fmt.Sprintf("SELECT key, value, updated_at FROM %s ORDER BY key", c))
}

func (s *Store) query(ctx context.Context, c Collection, query string, args ...any) ([]Record, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			key, value string
			updatedAt  int64
		)
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c, err)
		}
		out = append(out, Record{
			Collection: c,
			Key:        key,
			Value:      json.RawMessage(value),
			UpdatedAt:  time.UnixMilli(updatedAt),
		})
	}
	return out, rows.Err()
}

// Delete removes the record stored under key. Deleting a missing key is not
// an error.
func (s *Store) Delete(ctx context.Context, c Collection, key string) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE key = ?", c), key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, key, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context, c Collection) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", c)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c, err)
	}
	return n, nil
}

// Clear deletes every record in every collection. The schema is kept.
func (s *Store) Clear(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range Collections() {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", c)); err != nil {
			return fmt.Errorf("clear %s: %w", c, err)
		}
	}
	return tx.Commit()
}
