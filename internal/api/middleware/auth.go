package middleware

import (
	"errors"
	"net/http"
	"strings"

	"maskoff-server/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// AuthMiddleware validates the Bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware(tokens *token.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			status := "invalid token"
			if errors.Is(err, token.ErrExpiredToken) {
				status = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": status})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// UserID returns the authenticated caller's ID from the context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
