package middleware

import (
	"net/http"
	"strings"

	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/fergoeqs/second-service/internal/core/service"
	"github.com/gin-gonic/gin"
)

const (
	AuthHeaderKey  = "Authorization"
	AuthContextKey = "auth"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get authorization header
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			unauthorized(c, "Missing authorization header")
			return
		}

		// Check if it's a Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'")
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		// Store claims in context
		c.Set(AuthContextKey, claims)

		c.Next()
	}
}

// GetAuthClaims retrieves auth claims from context
func GetAuthClaims(c *gin.Context) (*service.TokenClaims, bool) {
	claims, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}

	tokenClaims, ok := claims.(*service.TokenClaims)
	return tokenClaims, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:     "Unauthorized",
		Message:   message,
		Code:      http.StatusUnauthorized,
		RequestID: GetRequestID(c),
	})
}
