package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// requestWindow tracks requests from an IP in the current window
type requestWindow struct {
	Count   int
	StartAt time.Time
}

// RateLimiter is a fixed-window per-IP request limiter
type RateLimiter struct {
	mu           sync.Mutex
	windows      map[string]*requestWindow
	maxRequests  int
	windowPeriod time.Duration
	now          func() time.Time
	stop         chan struct{}
}

// NewRateLimiter creates a limiter allowing maxRequests per windowPeriod per IP
func NewRateLimiter(maxRequests int, windowPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:      make(map[string]*requestWindow),
		maxRequests:  maxRequests,
		windowPeriod: windowPeriod,
		now:          time.Now,
		stop:         make(chan struct{}),
	}
}

// StartCleanup periodically drops expired windows until Stop is called
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, w := range rl.windows {
		if now.Sub(w.StartAt) > rl.windowPeriod {
			delete(rl.windows, ip)
		}
	}
}

// Allow records a request from ip and reports whether it is within the limit,
// the remaining budget and the time until the window resets
func (rl *RateLimiter) Allow(ip string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[ip]
	if !exists || now.Sub(w.StartAt) >= rl.windowPeriod {
		w = &requestWindow{StartAt: now}
		rl.windows[ip] = w
	}

	reset := rl.windowPeriod - now.Sub(w.StartAt)
	if w.Count >= rl.maxRequests {
		return false, 0, reset
	}
	w.Count++
	return true, rl.maxRequests - w.Count, reset
}

// RateLimit rejects clients exceeding the limiter's budget with 429.
// A nil limiter or non-positive budget disables limiting.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.maxRequests <= 0 {
			c.Next()
			return
		}

		allowed, remaining, reset := rl.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  http.StatusTooManyRequests,
				"error":   "TOO_MANY_REQUESTS",
				"message": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
			return
		}

		c.Next()
	}
}
