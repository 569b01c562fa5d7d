package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/config"
)

// criticalOperationLimit applies a per-IP limiter for an expensive operation
// type, using the shared RateLimitManager from the request context.
func criticalOperationLimit(operationType string, requestsPerWindow, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		managerVal, exists := c.Get("rateLimitManager")
		if !exists {
			c.Next()
			return
		}

		manager, ok := managerVal.(*RateLimitManager)
		if !ok || manager == nil {
			c.Next()
			return
		}

		limiter := manager.GetCriticalOperationLimiter(c.ClientIP(), operationType, requestsPerWindow, windowSeconds)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":          operationType + " rate limit exceeded",
				"retry_after":    windowSeconds,
				"max_requests":   requestsPerWindow,
				"window_seconds": windowSeconds,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UploadRateLimitMiddleware limits image uploads per IP.
// Default: 20 requests per 5 minutes.
func UploadRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	requests := cfg.UploadRateLimitRequests
	if requests <= 0 {
		requests = 20
	}
	window := cfg.UploadRateLimitWindow
	if window <= 0 {
		window = 300
	}
	return criticalOperationLimit("upload", requests, window)
}

// GenerateRateLimitMiddleware limits AI content generation per IP. Generation
// calls out to a paid API, so the window is deliberately tight.
// Default: 10 requests per hour.
func GenerateRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	requests := cfg.GenerateRateLimitRequests
	if requests <= 0 {
		requests = 10
	}
	window := cfg.GenerateRateLimitWindow
	if window <= 0 {
		window = 3600
	}
	return criticalOperationLimit("generate", requests, window)
}
