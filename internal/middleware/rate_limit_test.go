package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for limiter tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(requests, window)
	rl.now = clock.now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter_Take(t *testing.T) {
	tests := []struct {
		name          string
		requests      int
		calls         int
		wantAllowed   int
		wantRemaining int
	}{
		{name: "under the limit", requests: 5, calls: 3, wantAllowed: 3, wantRemaining: 2},
		{name: "at the limit", requests: 3, calls: 3, wantAllowed: 3, wantRemaining: 0},
		{name: "over the limit", requests: 2, calls: 5, wantAllowed: 2, wantRemaining: 0},
		{name: "disabled", requests: 0, calls: 50, wantAllowed: 50, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.requests, time.Minute)

			allowed, remaining := 0, -1
			for i := 0; i < tt.calls; i++ {
				ok, rem, _ := rl.take("scale-1")
				if ok {
					allowed++
					remaining = rem
				}
			}
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantRemaining, remaining)
		})
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, _, _ := rl.take("scale-1")
		require.True(t, ok)
	}
	ok, _, wait := rl.take("scale-1")
	require.False(t, ok)
	assert.InDelta(t, float64(30*time.Second), float64(wait), float64(time.Millisecond), "one token per window/requests")

	clock.advance(30 * time.Second)
	ok, remaining, _ := rl.take("scale-1")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	clock.advance(2 * time.Minute)
	_, remaining, _ = rl.take("scale-1")
	assert.Equal(t, 1, remaining, "bucket never exceeds its capacity")
}

func TestRateLimiter_RejectedRequestsDoNotBorrow(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	ok, _, _ := rl.take("scale-1")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		ok, _, _ = rl.take("scale-1")
		require.False(t, ok)
	}

	clock.advance(time.Minute)
	ok, _, _ = rl.take("scale-1")
	assert.True(t, ok, "rejections cancel their reservation")
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	for i := 0; i < 20; i++ {
		ok, _, _ := rl.take(fmt.Sprintf("ip:10.0.0.%d", i))
		assert.True(t, ok)
	}
	ok, _, _ := rl.take("ip:10.0.0.3")
	assert.False(t, ok)
	assert.Equal(t, 20, rl.Clients())
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl, clock := newTestLimiter(t, 5, time.Minute)

	rl.take("ip:10.0.0.1")
	clock.advance(90 * time.Second)
	rl.take("ip:10.0.0.2")

	clock.advance(45 * time.Second)
	rl.evictIdle()

	assert.Equal(t, 1, rl.Clients(), "only the client idle for two windows is dropped")
}

func TestRateLimiter_RateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requests       int
		sends          int
		wantLastStatus int
		wantRemaining  string
		wantRetryAfter string
	}{
		{name: "allowed", requests: 3, sends: 2, wantLastStatus: http.StatusOK, wantRemaining: "1"},
		{name: "limited", requests: 2, sends: 3, wantLastStatus: http.StatusTooManyRequests, wantRemaining: "0", wantRetryAfter: "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.requests, time.Minute)
			router := gin.New()
			router.Use(RequestID(), rl.RateLimit())
			router.POST("/weight", func(c *gin.Context) { c.Status(http.StatusOK) })

			var last *httptest.ResponseRecorder
			for i := 0; i < tt.sends; i++ {
				req := httptest.NewRequest(http.MethodPost, "/weight", nil)
				req.RemoteAddr = "10.1.1.1:5000"
				last = httptest.NewRecorder()
				router.ServeHTTP(last, req)
			}

			assert.Equal(t, tt.wantLastStatus, last.Code)
			assert.Equal(t, fmt.Sprint(tt.requests), last.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, tt.wantRemaining, last.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, tt.wantRetryAfter, last.Header().Get("Retry-After"))
			if tt.wantLastStatus == http.StatusTooManyRequests {
				assert.Contains(t, last.Body.String(), `"kind":"rate_limit_exceeded"`)
			}
		})
	}
}

func TestRateLimiter_OperatorRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if op := c.GetHeader("X-Test-Operator"); op != "" {
			c.Set(OperatorKey, op)
		}
		c.Next()
	})
	router.Use(rl.OperatorRateLimit())
	router.POST("/batch-weight", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(operator string) int {
		req := httptest.NewRequest(http.MethodPost, "/batch-weight", nil)
		req.RemoteAddr = "10.0.0.5:4000"
		if operator != "" {
			req.Header.Set("X-Test-Operator", operator)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("dana"))
	assert.Equal(t, http.StatusOK, send("dana"))
	assert.Equal(t, http.StatusTooManyRequests, send("dana"))

	// Same IP, different operator keeps its own quota.
	assert.Equal(t, http.StatusOK, send("yossi"))
	assert.Equal(t, http.StatusOK, send(""))
}

func TestOperatorOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		operator string
		want     string
	}{
		{name: "operator", operator: "dana", want: "operator:dana"},
		{name: "anonymous", want: "ip:192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.operator != "" {
				c.Set(OperatorKey, tt.operator)
			}
			assert.Equal(t, tt.want, operatorOrIP(c))
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 30, retryAfterSeconds(30*time.Second))
	assert.Equal(t, 31, retryAfterSeconds(30*time.Second+time.Millisecond))
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
