package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// SlowRequestThreshold marks requests worth logging
const SlowRequestThreshold = 1 * time.Second

// RequestLogger logs failed and slow requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Printf("[ERROR] %s %s %d %v", c.Request.Method, path, status, duration)
		case status >= 400 || duration > SlowRequestThreshold:
			log.Printf("[WARN] %s %s %d %v", c.Request.Method, path, status, duration)
		}
	}
}
