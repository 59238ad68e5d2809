package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-IP sliding window limiter.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter allows limit requests per window for every client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request from ip and reports whether it fits in the window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.window)

	// Remove old timestamps outside the window
	requests := rl.requests[ip]
	filteredRequests := requests[:0]
	for _, t := range requests {
		if t.After(windowStart) {
			filteredRequests = append(filteredRequests, t)
		}
	}

	// Over the limit: keep the pruned list, do not count this request
	if len(filteredRequests) >= rl.limit {
		rl.requests[ip] = filteredRequests
		return false
	}

	// Record the current request
	rl.requests[ip] = append(filteredRequests, now)
	return true
}

// getIP prefers the socket address; gin's ClientIP is the fallback.
func getIP(c *gin.Context) string {
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP()
	}
	return ip
}

// RateLimitMiddleware answers 429 once a client exceeds the limiter.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(rl.window.Seconds())) // seconds, as Retry-After expects
	return func(c *gin.Context) {
		ip := getIP(c)
		if !rl.Allow(ip) {
			customLog.Warnf("RateLimit: Client %s exceeded %d requests per %s", ip, rl.limit, rl.window)
			c.Header("Retry-After", retryAfter)
			c.HTML(http.StatusTooManyRequests, ErrorTemplate, gin.H{
				"Status":  http.StatusTooManyRequests,
				"Title":   http.StatusText(http.StatusTooManyRequests),
				"Message": "Too many requests. Please wait.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
