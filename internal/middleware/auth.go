package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenResolver maps an opaque session token to a user id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// TokenAuth requires a valid session token in the X-Token header and stores
// the resolved user id in the request context.
func TokenAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing X-Token header",
				},
			})
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired token",
				},
			})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalTokenAuth resolves X-Token when present but lets anonymous
// requests through. Used on the download route, where public nodes are
// readable without a session.
func OptionalTokenAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader("X-Token"); token != "" {
			if userID, err := resolver.Resolve(c.Request.Context(), token); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}
