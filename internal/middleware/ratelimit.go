package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/models"
)

const rateLimitMessage = "Too many requests, please try again later."

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per client IP in fixed windows. One instance
// may be mounted on several routes so they share the same budget.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	clients map[string]*window
	now     func() time.Time
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		period:  period,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.now = now
	return r
}

// Allow records one request for key and reports whether it fits in the
// current window, along with the remaining budget and the window reset time.
func (r *RateLimiter) Allow(key string) (bool, int, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	w, ok := r.clients[key]
	if !ok || !now.Before(w.resetAt) {
		r.sweep(now)
		w = &window{resetAt: now.Add(r.period)}
		r.clients[key] = w
	}
	w.count++

	remaining := r.limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return w.count <= r.limit, remaining, w.resetAt
}

// sweep drops expired windows. Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	for k, w := range r.clients {
		if !now.Before(w.resetAt) {
			delete(r.clients, k)
		}
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetAt := r.Allow(c.ClientIP())

		reset := int(math.Ceil(resetAt.Sub(r.now()).Seconds()))
		if reset < 0 {
			reset = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(r.limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(reset))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(reset))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Message: rateLimitMessage})
			return
		}
		c.Next()
	}
}
