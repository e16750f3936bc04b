package middleware

import (
	"fmt"
	"net/http"

	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware rejects requests beyond a shared token bucket.
// A zero rps disables limiting.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			rateLimitRejects.Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:     "Too Many Requests",
				Message:   "Rate limit exceeded",
				Code:      http.StatusTooManyRequests,
				RequestID: GetRequestID(c),
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", int(rps)))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int(limiter.Tokens())))

		c.Next()
	}
}
