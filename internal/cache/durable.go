package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/examprep/cbt/internal/store"
)

// RecordStore is the subset of the record store the durable tier needs.
type RecordStore interface {
	Put(ctx context.Context, c store.Collection, key string, value any) error
	Get(ctx context.Context, c store.Collection, key string) (*store.Record, error)
}

// envelope is the stored form of a durable entry. Tags are copied into the
// document so the store can index them.
type envelope[T any] struct {
	Key       string            `json:"key"`
	Value     T                 `json:"value"`
	Timestamp int64             `json:"timestamp"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Durable is the long-lived tier backed by a record store collection.
// Storage errors are logged and reported as misses; the durable tier is
// never required for a correct answer.
type Durable[T any] struct {
	store RecordStore
	coll  store.Collection
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
}

// NewDurable creates a durable tier over coll. A zero ttl means entries never
// go stale.
func NewDurable[T any](rs RecordStore, coll store.Collection, ttl time.Duration, log *slog.Logger) *Durable[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Durable[T]{store: rs, coll: coll, ttl: ttl, now: time.Now, log: log}
}

// Get reads the entry for key. Entries older than the TTL are returned with
// Stale set; the caller decides whether a stale entry is usable.
func (d *Durable[T]) Get(ctx context.Context, key string) Result[T] {
	rec, err := d.store.Get(ctx, d.coll, key)
	if err != nil {
		d.log.Warn("durable cache read failed", "collection", d.coll, "key", key, "err", err)
		return miss[T]()
	}
	if rec == nil {
		return miss[T]()
	}

	var env envelope[T]
	if err := json.Unmarshal(rec.Value, &env); err != nil {
		d.log.Warn("durable cache entry unreadable", "collection", d.coll, "key", key, "err", err)
		return miss[T]()
	}

	age := d.now().Sub(time.UnixMilli(env.Timestamp))
	return Result[T]{
		Value:  env.Value,
		Status: StatusHit,
		Source: SourceDurable,
		Stale:  d.ttl > 0 && age >= d.ttl,
	}
}

// Entry reads the entry for key with its timestamp, or nil if absent.
func (d *Durable[T]) Entry(ctx context.Context, key string) *Entry[T] {
	rec, err := d.store.Get(ctx, d.coll, key)
	if err != nil || rec == nil {
		return nil
	}
	var env envelope[T]
	if err := json.Unmarshal(rec.Value, &env); err != nil {
		return nil
	}
	return &Entry[T]{Key: env.Key, Value: env.Value, Timestamp: time.UnixMilli(env.Timestamp)}
}

// Set writes value under key with the current time. A failure is logged and
// returned; callers on the read path ignore it.
func (d *Durable[T]) Set(ctx context.Context, key string, value T, tags map[string]string) error {
	env := envelope[T]{
		Key:       key,
		Value:     value,
		Timestamp: d.now().UnixMilli(),
		Tags:      tags,
	}
	if err := d.store.Put(ctx, d.coll, key, env); err != nil {
		d.log.Warn("durable cache write failed", "collection", d.coll, "key", key, "err", err)
		return err
	}
	return nil
}
