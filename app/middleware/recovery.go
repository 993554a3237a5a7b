package middleware

import (
	"net/http"
	"runtime/debug"

	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery converts a handler panic into a 500 response. The stack trace is
// logged always and returned to the caller only in debug mode.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := string(debug.Stack())
			logger.ErrorCtx(c.Request.Context(), "panic recovered: %v\nstack:\n%s", r, stack)

			body := gin.H{"error": "internal server error"}
			if gin.Mode() == gin.DebugMode {
				body["panic"] = r
				body["stack"] = stack
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()

		c.Next()
	}
}
