package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"floortrack/pkg/config"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards admin routes with a bearer token. An empty api_key in
// the config disables the check entirely.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.GlobalConfig.Server.APIKey
		if expected == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			logger.WarnCtx(c.Request.Context(), "rejected admin request to %s: bad api key", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
