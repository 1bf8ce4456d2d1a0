package api

import (
	"net/http"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies one global token bucket. Burst equals the
// per-second rate, with a floor of one.
func RateLimitMiddleware(rps float64) gin.HandlerFunc {
	burst := max(int(rps), 1)
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// MetricsMiddleware records request latency by route template. Unmatched
// paths are grouped under "unmatched".
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, time.Since(start))
	}
}
