package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuth authenticates the calling platform service by API key. The
// configured value is a bcrypt hash so the plaintext key never lives in
// config files. The caller identifies the acting user via X-Actor-ID for the
// ledger audit trail.
func APIKeyAuth(apiKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicRoute(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("API key missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("API key rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		if actor := c.GetHeader("X-Actor-ID"); actor != "" {
			c.Set(string(actorIDKey), actor)
		}
		c.Next()
	}
}

// isPublicRoute checks if the given path is a public route that doesn't require authentication
func isPublicRoute(path string) bool {
	return path == "/health"
}
