package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const bucketIdleTTL = 10 * time.Minute

// RateLimitRule is a token bucket: Rate tokens per second, up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig configures the RateLimit middleware. KeyFor defaults to the client IP.
type RateLimitConfig struct {
	Rule    RateLimitRule
	KeyFor  func(*gin.Context) string
	Limiter *RateLimiter
}

// RateLimiter holds one x/time/rate limiter per key and drops idle ones.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type rateBucket struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewRateLimiter constructs a limiter; now may be nil.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit rejects callers that exceed the rule with 429 and Retry-After.
// A zero rule disables limiting.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	keyFor := cfg.KeyFor
	if keyFor == nil {
		keyFor = func(c *gin.Context) string { return c.ClientIP() }
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(keyFor(c))
		allowed, retryAfter := cfg.Limiter.Allow(key, cfg.Rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Set(outcomeKey, "rate_limited")
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":        "Too many requests",
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}

// Allow consumes a token for key and reports how long to wait when none is left.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{limiter: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.buckets[key] = bucket
	}
	bucket.last = now
	if bucket.limiter.AllowN(now, 1) {
		return true, 0
	}
	// a failed AllowN leaves the bucket untouched
	missing := 1 - bucket.limiter.TokensAt(now)
	waitMs := math.Ceil(missing / rule.Rate * 1000.0)
	return false, time.Duration(waitMs) * time.Millisecond
}

// sweep drops idle buckets; callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < bucketIdleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.last) >= bucketIdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Len reports the number of tracked buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
