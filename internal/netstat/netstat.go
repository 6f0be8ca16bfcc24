// Package netstat answers whether the remote services are reachable.
package netstat

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultCheckTimeout = 3 * time.Second
	DefaultCacheFor     = 30 * time.Second
)

// Checker checks a URL with HEAD requests. Any HTTP response counts as
// online; only transport failures count as offline. Results are reused for
// a short while so hot paths don't ping on every call.
type Checker struct {
	url      string
	client   *http.Client
	cacheFor time.Duration
	now      func() time.Time

	mu      sync.Mutex
	forced  bool
	checked time.Time
	online  bool
}

// NewChecker creates a checker for url.
func NewChecker(url string) *Checker {
	return &Checker{
		url:      url,
		client:   &http.Client{Timeout: DefaultCheckTimeout},
		cacheFor: DefaultCacheFor,
		now:      time.Now,
	}
}

// ForceOffline pins the checker to offline, or releases the pin.
func (c *Checker) ForceOffline(off bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forced = off
	c.checked = time.Time{}
}

// Online reports whether the checked URL answered recently.
func (c *Checker) Online(ctx context.Context) bool {
	c.mu.Lock()
	if c.forced {
		c.mu.Unlock()
		return false
	}
	if !c.checked.IsZero() && c.now().Sub(c.checked) < c.cacheFor {
		online := c.online
		c.mu.Unlock()
		return online
	}
	c.mu.Unlock()

	online := c.ping(ctx)

	c.mu.Lock()
	c.online = online
	c.checked = c.now()
	c.mu.Unlock()
	return online
}

func (c *Checker) ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Fixed is a connectivity signal that never changes.
type Fixed bool

func (f Fixed) Online(context.Context) bool { return bool(f) }
