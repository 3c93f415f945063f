package middleware

import (
	"sync"
	"time"
)

// cachedResponse is a replayable 2xx response.
type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	expiresAt   time.Time
}

// idempotencyCache stores finished responses for ttl and marks keys whose
// first request is still running.
type idempotencyCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	done     map[string]*cachedResponse
	inFlight map[string]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func newIdempotencyCache(ttl time.Duration) *idempotencyCache {
	c := &idempotencyCache{
		ttl:      ttl,
		now:      time.Now,
		done:     make(map[string]*cachedResponse),
		inFlight: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
	go c.sweepEvery(time.Minute)
	return c
}

// begin claims key. It returns the stored response for a finished key, or
// started=false while another request holds the claim.
func (c *idempotencyCache) begin(key string) (cached *cachedResponse, started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if resp, ok := c.done[key]; ok {
		if now.Before(resp.expiresAt) {
			return resp, false
		}
		delete(c.done, key)
	}
	if _, busy := c.inFlight[key]; busy {
		return nil, false
	}
	c.inFlight[key] = now
	return nil, true
}

// finish releases the claim on key and stores resp when it is non-nil.
func (c *idempotencyCache) finish(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, key)
	if resp != nil {
		resp.expiresAt = c.now().Add(c.ttl)
		c.done[key] = resp
	}
}

// Len counts stored responses, expired ones included.
func (c *idempotencyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.done)
}

// Stop ends the sweeper.
func (c *idempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *idempotencyCache) sweepEvery(d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

// sweep drops expired responses and claims older than ttl.
func (c *idempotencyCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, resp := range c.done {
		if !now.Before(resp.expiresAt) {
			delete(c.done, k)
		}
	}
	for k, since := range c.inFlight {
		if now.Sub(since) > c.ttl {
			delete(c.inFlight, k)
		}
	}
}
