package middleware

import (
	"fmt"
	"net/http"

	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandlerMiddleware handles panics and errors
func ErrorHandlerMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				panicRecoveries.Inc()
				logger.Error().
					Str("panic", fmt.Sprintf("%v", err)).
					Str("request_id", GetRequestID(c)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:     "Internal Server Error",
					Message:   "An unexpected error occurred",
					Code:      http.StatusInternalServerError,
					RequestID: GetRequestID(c),
				})
			}
		}()

		c.Next()

		// Check if there are any errors
		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:     "Internal Server Error",
				Message:   err.Error(),
				Code:      http.StatusInternalServerError,
				RequestID: GetRequestID(c),
			})
		}
	}
}
