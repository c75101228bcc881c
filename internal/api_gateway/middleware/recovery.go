package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// InternalErrorBody is the envelope returned for any unexpected server failure
func InternalErrorBody(correlationID string) gin.H {
	body := gin.H{
		"error": gin.H{
			"code":    "INTERNAL_SERVER_ERROR",
			"message": "An internal server error occurred",
		},
	}
	if correlationID != "" {
		body["correlation_id"] = correlationID
	}
	return body
}

// Recovery catches panics, logs them with stack traces and answers 500
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			correlationID := GetCorrelationID(c)
			logger.Error("Panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"correlation_id", correlationID,
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, InternalErrorBody(correlationID))
		}()

		c.Next()
	}
}
