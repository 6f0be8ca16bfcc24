// Package offline implements the caching proxy that keeps the app shell and
// previously seen responses available without a network.
package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const (
	maxBodySize    = 32 << 20
	defaultTimeout = 30 * time.Second
	shellDocument  = "/index.html"
)

// ErrBodyTooLarge is returned for upstream responses over the body limit.
// They are treated as failed fetches and never cached.
var ErrBodyTooLarge = errors.New("response body too large")

// DefaultShell is the minimal application shell cached on install.
var DefaultShell = []string{"/", "/index.html", "/manifest.json"}

// Config configures a Worker.
type Config struct {
	// Origin is the application's own origin, e.g. "https://cbt.example.com".
	Origin string

	// Version selects the cache generation.
	Version string

	// Shell lists the same-origin paths cached on install. Defaults to
	// DefaultShell.
	Shell []string

	// AllowedOrigins are the browser origins allowed to call the proxy
	// cross-origin. Defaults to Origin.
	AllowedOrigins []string

	Client *http.Client
	Logger *slog.Logger
}

// Worker intercepts requests for the application and applies the offline
// fetch policies. Requests for paths are same-origin; requests in absolute
// form for another host, or via /_proxy?url=, are cross-origin.
type Worker struct {
	origin     *url.URL
	generation string
	shell      []string
	cache      *Cache
	client     *http.Client
	log        *slog.Logger
	handler    http.Handler
	maxBody    int64

	revalidating sync.WaitGroup
}

// New creates a Worker backed by cache.
func New(cfg Config, cache *Cache) (*Worker, error) {
	origin, err := url.Parse(cfg.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid origin %q", cfg.Origin)
	}
	generation, err := GenerationName(cfg.Version)
	if err != nil {
		return nil, err
	}
	if cfg.Shell == nil {
		cfg.Shell = DefaultShell
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = []string{origin.Scheme + "://" + origin.Host}
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &Worker{
		origin:     origin,
		generation: generation,
		shell:      cfg.Shell,
		cache:      cache,
		client:     cfg.Client,
		log:        cfg.Logger.With("component", "offline", "generation", generation),
		maxBody:    maxBodySize,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(w.absoluteForm)
	r.HandleFunc("/_proxy", func(rw http.ResponseWriter, req *http.Request) {
		target, err := url.Parse(req.URL.Query().Get("url"))
		if err != nil || !target.IsAbs() {
			http.Error(rw, "url parameter must be an absolute URL", http.StatusBadRequest)
			return
		}
		w.dispatch(rw, req, target)
	})
	r.HandleFunc("/*", w.sameOrigin)

	w.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
	return w, nil
}

// Generation returns the current cache generation name.
func (w *Worker) Generation() string { return w.generation }

func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.handler.ServeHTTP(rw, r)
}

// Wait blocks until background revalidations have finished.
func (w *Worker) Wait() {
	w.revalidating.Wait()
}

// Install fetches the application shell into the current generation. Either
// every shell resource is stored or none is.
func (w *Worker) Install(ctx context.Context) error {
	fetched := make(map[string]*Response, len(w.shell))
	for _, p := range w.shell {
		u := w.resolve(&url.URL{Path: p})
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		resp, err := w.fetch(req)
		if err != nil {
			return fmt.Errorf("install %s: %w", p, err)
		}
		if !ok(resp) {
			return fmt.Errorf("install %s: status %d", p, resp.Status)
		}
		fetched[u.String()] = resp
	}
	for key, resp := range fetched {
		if err := w.cache.Put(ctx, w.generation, key, resp); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	w.log.Info("installed application shell", "resources", len(fetched))
	return nil
}

// Activate deletes every generation other than the current one and returns
// the names removed.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	names, err := w.cache.Generations(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, name := range names {
		if name == w.generation {
			continue
		}
		if err := w.cache.DeleteGeneration(ctx, name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	if len(removed) > 0 {
		w.log.Info("removed old cache generations", "names", removed)
	}
	return removed, nil
}

func (w *Worker) absoluteForm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.IsAbs() {
			w.dispatch(rw, r, r.URL)
			return
		}
		next.ServeHTTP(rw, r)
	})
}

func (w *Worker) dispatch(rw http.ResponseWriter, r *http.Request, target *url.URL) {
	if target.Scheme == w.origin.Scheme && target.Host == w.origin.Host {
		r = r.Clone(r.Context())
		r.URL = &url.URL{Path: target.Path, RawPath: target.RawPath, RawQuery: target.RawQuery}
		w.sameOrigin(rw, r)
		return
	}
	w.crossOrigin(rw, r, target)
}

// crossOrigin is network-first. Successful GET responses are stored; on
// failure the stored copy is served.
func (w *Worker) crossOrigin(rw http.ResponseWriter, r *http.Request, target *url.URL) {
	key := target.String()
	resp, err := w.forward(r, target)
	if err == nil {
		if r.Method == http.MethodGet && ok(resp) {
			w.store(r.Context(), key, resp)
		}
		write(rw, resp, false)
		return
	}

	if r.Method == http.MethodGet {
		if cached := w.match(r.Context(), key); cached != nil {
			w.log.Debug("serving cached cross-origin response", "url", key, "err", err)
			write(rw, cached, true)
			return
		}
	}
	w.fail(rw, key, err)
}

func (w *Worker) sameOrigin(rw http.ResponseWriter, r *http.Request) {
	if navigation(r) {
		w.navigate(rw, r)
		return
	}

	target := w.resolve(r.URL)
	key := target.String()

	if r.Method == http.MethodGet {
		if cached := w.match(r.Context(), key); cached != nil {
			write(rw, cached, true)
			w.revalidate(r, target)
			return
		}
	}

	resp, err := w.forward(r, target)
	if err != nil {
		w.fail(rw, key, err)
		return
	}
	if r.Method == http.MethodGet && ok(resp) {
		w.store(r.Context(), key, resp)
	}
	write(rw, resp, false)
}

// navigate is network-first and falls back to the shell document so the
// client-side router can take over.
func (w *Worker) navigate(rw http.ResponseWriter, r *http.Request) {
	target := w.resolve(r.URL)
	resp, err := w.forward(r, target)
	if err == nil {
		write(rw, resp, false)
		return
	}
	shell := w.resolve(&url.URL{Path: shellDocument}).String()
	if cached := w.match(r.Context(), shell); cached != nil {
		w.log.Debug("serving application shell offline", "path", r.URL.Path, "err", err)
		write(rw, cached, true)
		return
	}
	w.fail(rw, target.String(), err)
}

// revalidate refreshes a cached entry in the background. Failures are
// ignored.
func (w *Worker) revalidate(r *http.Request, target *url.URL) {
	ctx := context.WithoutCancel(r.Context())
	header := r.Header.Clone()
	w.revalidating.Add(1)
	go func() {
		defer w.revalidating.Done()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return
		}
		copyHeader(req.Header, header)
		resp, err := w.fetch(req)
		if err != nil || !ok(resp) {
			return
		}
		w.store(ctx, target.String(), resp)
	}()
}

func (w *Worker) forward(r *http.Request, target *url.URL) (*Response, error) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		return nil, err
	}
	copyHeader(req.Header, r.Header)
	return w.fetch(req)
}

func (w *Worker) fetch(req *http.Request) (*Response, error) {
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > w.maxBody {
		return nil, fmt.Errorf("%s: %w", req.URL, ErrBodyTooLarge)
	}
	header := resp.Header.Clone()
	for _, h := range hopHeaders {
		header.Del(h)
	}
	return &Response{Status: resp.StatusCode, Header: header, Body: body, StoredAt: time.Now()}, nil
}

func (w *Worker) match(ctx context.Context, key string) *Response {
	resp, err := w.cache.Match(ctx, w.generation, key)
	if err != nil {
		w.log.Warn("response cache read failed", "key", key, "err", err)
		return nil
	}
	return resp
}

func (w *Worker) store(ctx context.Context, key string, resp *Response) {
	if err := w.cache.Put(context.WithoutCancel(ctx), w.generation, key, resp); err != nil {
		w.log.Warn("response cache write failed", "key", key, "err", err)
	}
}

func (w *Worker) fail(rw http.ResponseWriter, key string, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	w.log.Debug("fetch failed with nothing cached", "url", key, "err", err)
	http.Error(rw, "offline: "+key+" is not cached", status)
}

func (w *Worker) resolve(u *url.URL) *url.URL {
	return w.origin.ResolveReference(&url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery})
}

func navigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func ok(resp *Response) bool {
	return resp.Status >= 200 && resp.Status < 300
}

func write(rw http.ResponseWriter, resp *Response, cached bool) {
	copyHeader(rw.Header(), resp.Header)
	if cached {
		rw.Header().Set("X-Offline-Cache", "hit")
	}
	rw.WriteHeader(resp.Status)
	_, _ = io.Copy(rw, bytes.NewReader(resp.Body))
}

var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade", "Content-Length",
}

func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}
