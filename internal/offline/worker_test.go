package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site serves a tiny app whose asset content can be changed mid-test.
type site struct {
	srv   *httptest.Server
	asset atomic.Value
	hits  atomic.Int32
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{}
	s.asset.Store("v1")
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch r.URL.Path {
		case "/", "/index.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>shell</html>"))
		case "/manifest.json":
			w.Write([]byte(`{"name":"cbt"}`))
		case "/app.js":
			w.Write([]byte(s.asset.Load().(string)))
		case "/data.json":
			w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func openCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(context.Background(), filepath.Join(t.TempDir(), "offline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func newWorker(t *testing.T, origin, version string, c *Cache) *Worker {
	t.Helper()
	w, err := New(Config{Origin: origin, Version: version}, c)
	require.NoError(t, err)
	t.Cleanup(w.Wait)
	return w
}

func get(w http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	w.ServeHTTP(rec, req)
	return rec
}

func TestGenerationName(t *testing.T) {
	for in, want := range map[string]string{
		"1":            "cbt-v1.0.0",
		"v1.2":         "cbt-v1.2.0",
		"2.0.1":        "cbt-v2.0.1",
		"1.0.0+build5": "cbt-v1.0.0",
	} {
		got, err := GenerationName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := GenerationName("dev")
	assert.Error(t, err)
}

func TestInstallAndActivate(t *testing.T) {
	s := newSite(t)
	c := openCache(t)
	ctx := context.Background()

	old := newWorker(t, s.srv.URL, "1.0.0", c)
	require.NoError(t, old.Install(ctx))

	cur := newWorker(t, s.srv.URL, "1.1.0", c)
	require.NoError(t, cur.Install(ctx))

	gens, err := c.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cbt-v1.0.0", "cbt-v1.1.0"}, gens)

	removed, err := cur.Activate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cbt-v1.0.0"}, removed)

	gens, err = c.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cbt-v1.1.0"}, gens)

	manifest, err := c.Match(ctx, "cbt-v1.1.0", s.srv.URL+"/manifest.json")
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, `{"name":"cbt"}`, string(manifest.Body))
}

func TestInstallFailsWhenShellMissing(t *testing.T) {
	s := newSite(t)
	c := openCache(t)
	w, err := New(Config{Origin: s.srv.URL, Version: "1", Shell: []string{"/index.html", "/missing"}}, c)
	require.NoError(t, err)

	assert.Error(t, w.Install(context.Background()))
	gens, err := c.Generations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gens, "a failed install stores nothing")
}

func TestNavigationFallsBackToShell(t *testing.T) {
	s := newSite(t)
	w := newWorker(t, s.srv.URL, "1", openCache(t))
	require.NoError(t, w.Install(context.Background()))

	nav := map[string]string{"Sec-Fetch-Mode": "navigate"}
	rec := get(w, "/practice/physics", nav)
	assert.Equal(t, http.StatusNotFound, rec.Code, "online navigation goes to the network")

	s.srv.Close()
	rec = get(w, "/practice/physics", nav)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>shell</html>", rec.Body.String())
	assert.Equal(t, "hit", rec.Header().Get("X-Offline-Cache"))
}

func TestSameOriginCacheFirstWithRevalidation(t *testing.T) {
	s := newSite(t)
	w := newWorker(t, s.srv.URL, "1", openCache(t))

	rec := get(w, "/app.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Offline-Cache"))

	s.asset.Store("v2")
	rec = get(w, "/app.js", nil)
	assert.Equal(t, "v1", rec.Body.String(), "cached copy is served first")
	w.Wait()

	rec = get(w, "/app.js", nil)
	assert.Equal(t, "v2", rec.Body.String(), "background refresh updated the cache")
	w.Wait()

	s.srv.Close()
	rec = get(w, "/app.js", nil)
	assert.Equal(t, "v2", rec.Body.String())
	w.Wait()
}

func TestSameOriginErrorsAreNotCached(t *testing.T) {
	s := newSite(t)
	w := newWorker(t, s.srv.URL, "1", openCache(t))

	assert.Equal(t, http.StatusNotFound, get(w, "/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(w, "/nope", nil).Code)
	assert.Equal(t, int32(2), s.hits.Load())

	s.srv.Close()
	assert.Equal(t, http.StatusBadGateway, get(w, "/nope", nil).Code)
}

func TestCrossOriginNetworkFirst(t *testing.T) {
	app := newSite(t)
	api := newSite(t)
	w := newWorker(t, app.srv.URL, "1", openCache(t))
	target := "/_proxy?url=" + url.QueryEscape(api.srv.URL+"/data.json")

	rec := get(w, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())

	rec = get(w, target, nil)
	assert.Empty(t, rec.Header().Get("X-Offline-Cache"), "network is tried first while it works")
	assert.Equal(t, int32(2), api.hits.Load())

	api.srv.Close()
	rec = get(w, target, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Offline-Cache"))

	rec = get(w, "/_proxy?url="+url.QueryEscape(api.srv.URL+"/other.json"), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAbsoluteFormRequests(t *testing.T) {
	app := newSite(t)
	api := newSite(t)
	w := newWorker(t, app.srv.URL, "1", openCache(t))

	rec := get(w, api.srv.URL+"/data.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), api.hits.Load())

	rec = get(w, app.srv.URL+"/app.js", nil)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Equal(t, int32(1), app.hits.Load())
}

func TestProxyRejectsRelativeTarget(t *testing.T) {
	w := newWorker(t, "http://app.test", "1", openCache(t))
	assert.Equal(t, http.StatusBadRequest, get(w, "/_proxy?url=/data.json", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	w := newWorker(t, "http://app.test", "1", openCache(t))
	req := httptest.NewRequest(http.MethodOptions, "/app.js", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	w.ServeHTTP(rec, req)

	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Origin: "not a url", Version: "1"}, nil)
	assert.Error(t, err)
	_, err = New(Config{Origin: "http://app.test", Version: "latest"}, nil)
	assert.Error(t, err)
}

func TestOversizedResponsesFailTheFetch(t *testing.T) {
	app := newSite(t)
	api := newSite(t)
	w := newWorker(t, app.srv.URL, "1", openCache(t))
	w.maxBody = 8
	target := "/_proxy?url=" + url.QueryEscape(api.srv.URL+"/app.js")

	rec := get(w, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())

	api.asset.Store("0123456789")
	rec = get(w, target, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Offline-Cache"), "falls back to the cached copy")
	assert.Equal(t, "v1", rec.Body.String(), "a truncated body is never served or stored")

	rec = get(w, "/_proxy?url="+url.QueryEscape(api.srv.URL+"/index.html"), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code, "nothing cached to fall back on")

	req, err := http.NewRequest(http.MethodGet, api.srv.URL+"/app.js", nil)
	require.NoError(t, err)
	_, err = w.fetch(req)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
