package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Strategy selects the order in which tiers are consulted.
type Strategy int

const (
	// NetworkFirst consults memory, then the network, and falls back to the
	// durable tier only when the network fails.
	NetworkFirst Strategy = iota

	// CacheFirst consults memory, then a fresh durable entry, then the
	// network, and falls back to a stale durable entry when the network
	// fails.
	CacheFirst
)

// ErrOffline is the network stage's failure when the connectivity check
// reports no network. Nothing is fetched.
var ErrOffline = errors.New("network unavailable")

// Connectivity reports whether the network is usable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Fetch loads a value from the authoritative source.
type Fetch[T any] func(ctx context.Context) (T, error)

// Request identifies what to load.
type Request struct {
	Key  string
	Tags map[string]string
}

// Options configures a Pipeline.
type Options[T any] struct {
	Strategy Strategy
	Memory   *Memory[T]
	Durable  *Durable[T]

	// Empty reports whether a value should be treated as absent. Empty
	// values are neither cached nor served from cache.
	Empty func(T) bool

	// Network, when set, is consulted before every fetch.
	Network Connectivity

	Logger *slog.Logger
}

// Pipeline layers an in-process tier over a durable tier over a fetch.
// Concurrent loads of the same key share a single fetch.
type Pipeline[T any] struct {
	strategy Strategy
	memory   *Memory[T]
	durable  *Durable[T]
	empty    func(T) bool
	network  Connectivity
	log      *slog.Logger

	group  singleflight.Group
	writes sync.WaitGroup
}

// NewPipeline creates a pipeline. Memory and Durable may each be nil to
// skip that tier.
func NewPipeline[T any](opts Options[T]) *Pipeline[T] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Empty == nil {
		opts.Empty = func(T) bool { return false }
	}
	return &Pipeline[T]{
		strategy: opts.Strategy,
		memory:   opts.Memory,
		durable:  opts.Durable,
		empty:    opts.Empty,
		network:  opts.Network,
		log:      opts.Logger,
	}
}

// Get resolves req through the tiers, calling fetch at most once. On a
// network failure a durable copy, stale or not, is served in preference to
// the error; with no copy the error is returned as a *FallbackError.
func (p *Pipeline[T]) Get(ctx context.Context, req Request, fetch Fetch[T]) (T, Source, error) {
	if r := p.fromMemory(req.Key); r.Status == StatusHit {
		return r.Value, r.Source, nil
	}

	var durable Result[T]
	if p.strategy == CacheFirst {
		durable = p.fromDurable(ctx, req.Key)
		if durable.Status == StatusHit && !durable.Stale {
			p.toMemory(req.Key, durable.Value)
			return durable.Value, durable.Source, nil
		}
	}

	net := p.fromNetwork(ctx, req.Key, fetch)
	if net.Status == StatusHit {
		p.writeThrough(ctx, req, net.Value)
		return net.Value, net.Source, nil
	}

	if durable.Status != StatusHit {
		durable = p.fromDurable(ctx, req.Key)
	}
	if durable.Status == StatusHit {
		p.log.Info("serving cached copy after fetch failure",
			"key", req.Key, "stale", durable.Stale, "err", net.Err)
		return durable.Value, durable.Source, nil
	}

	var zero T
	return zero, SourceNone, &FallbackError{Key: req.Key, Err: net.Err}
}

// Store writes value to both tiers as if it had just been fetched.
func (p *Pipeline[T]) Store(ctx context.Context, req Request, value T) {
	p.writeThrough(ctx, req, value)
}

// Wait blocks until pending durable writes have finished.
func (p *Pipeline[T]) Wait() {
	p.writes.Wait()
}

// ClearMemory drops the in-process tier.
func (p *Pipeline[T]) ClearMemory() {
	if p.memory != nil {
		p.memory.Clear()
	}
}

func (p *Pipeline[T]) fromMemory(key string) Result[T] {
	if p.memory == nil {
		return miss[T]()
	}
	r := p.memory.Get(key)
	if r.Status == StatusHit && p.empty(r.Value) {
		return miss[T]()
	}
	return r
}

func (p *Pipeline[T]) fromDurable(ctx context.Context, key string) Result[T] {
	if p.durable == nil {
		return miss[T]()
	}
	r := p.durable.Get(ctx, key)
	if r.Status == StatusHit && p.empty(r.Value) {
		return miss[T]()
	}
	return r
}

// fromNetwork joins or starts the shared fetch for key. The fetch runs
// detached from any one caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (p *Pipeline[T]) fromNetwork(ctx context.Context, key string, fetch Fetch[T]) Result[T] {
	if p.network != nil && !p.network.Online(ctx) {
		return failed[T](ErrOffline)
	}
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		return fetch(shared)
	})
	select {
	case <-ctx.Done():
		return failed[T](ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return failed[T](r.Err)
		}
		return Result[T]{Value: r.Val.(T), Status: StatusHit, Source: SourceNetwork}
	}
}

func (p *Pipeline[T]) toMemory(key string, value T) {
	if p.memory != nil {
		p.memory.Set(key, value)
	}
}

// writeThrough populates the memory tier immediately and the durable tier in
// the background. Durable failures are logged by the tier and dropped.
func (p *Pipeline[T]) writeThrough(ctx context.Context, req Request, value T) {
	if p.empty(value) {
		return
	}
	p.toMemory(req.Key, value)
	if p.durable == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	p.writes.Add(1)
	go func() {
		defer p.writes.Done()
		_ = p.durable.Set(ctx, req.Key, value, req.Tags)
	}()
}
