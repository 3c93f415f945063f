package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterShards = 16

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

type clientShard struct {
	mu      sync.Mutex
	clients map[string]*client
}

// RateLimiter gives every client a token bucket holding up to requests
// tokens and refilling requests tokens per window. Clients are spread over
// shards by FNV hash.
type RateLimiter struct {
	shards   [limiterShards]clientShard
	limit    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter allowing requests per window per client.
// A non-positive requests value disables limiting.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  rate.Inf,
		burst:  requests,
		window: window,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	if requests > 0 && window > 0 {
		rl.limit = rate.Every(window / time.Duration(requests))
	}
	for i := range rl.shards {
		rl.shards[i].clients = make(map[string]*client)
	}

	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) shard(id string) *clientShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &rl.shards[h.Sum32()%limiterShards]
}

func (rl *RateLimiter) bucket(id string, now time.Time) *rate.Limiter {
	s := rl.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rl.limit, rl.burst)}
		s.clients[id] = c
	}
	c.lastSeen = now
	return c.bucket
}

// take spends one token of id. When none is left it reports how long until
// the next one.
func (rl *RateLimiter) take(id string) (allowed bool, remaining int, wait time.Duration) {
	if rl.limit == rate.Inf {
		return true, rl.burst, 0
	}

	now := rl.now()
	b := rl.bucket(id, now)

	r := b.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, rl.window
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, 0, d
	}
	return true, int(b.TokensAt(now)), 0
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.middleware(clientIP)
}

// OperatorRateLimit limits requests per authenticated operator, falling back
// to the client IP. It must run after AdminAuth.
func (rl *RateLimiter) OperatorRateLimit() gin.HandlerFunc {
	return rl.middleware(operatorOrIP)
}

func clientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

func operatorOrIP(c *gin.Context) string {
	if operator := GetOperator(c); operator != "" {
		return "operator:" + operator
	}
	return clientIP(c)
}

func (rl *RateLimiter) middleware(identify func(*gin.Context) string) gin.HandlerFunc {
	limit := strconv.Itoa(rl.burst)

	return func(c *gin.Context) {
		allowed, remaining, wait := rl.take(identify(c))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCh:
			return
		}
	}
}

// evictIdle drops clients unseen for two windows. Their buckets are full
// again by then.
func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-2 * rl.window)
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		for id, c := range s.clients {
			if c.lastSeen.Before(cutoff) {
				delete(s.clients, id)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the eviction goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	n := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		n += len(s.clients)
		s.mu.Unlock()
	}
	return n
}
