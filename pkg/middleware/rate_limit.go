package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	cfg      RateLimiterConfig
	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.TTL == 0 {
		cfg.TTL = 3 * time.Minute
	}
	if cfg.Burst < cfg.RequestsPerSecond {
		cfg.Burst = cfg.RequestsPerSecond
	}

	return &RateLimiter{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
	}
}

func (r *RateLimiter) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(r.cfg.RequestsPerSecond), r.cfg.Burst)
		r.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ip, v := range r.visitors {
		if time.Since(v.lastSeen) > r.cfg.TTL {
			delete(r.visitors, ip)
		}
	}
}

// Cleanup forgets idle visitors until ctx is cancelled
func (r *RateLimiter) Cleanup(ctx context.Context) {
	t := time.NewTicker(r.cfg.CleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.sweep()
		}
	}
}

func (r *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": RequestID(c),
			})
			return
		}

		c.Next()
	}
}
