package middleware

import (
	"github.com/call-detail-billing/internal/platform/correlation"
	"github.com/gin-gonic/gin"
)

const (
	// CorrelationIDHeader is the HTTP header for correlation ID
	CorrelationIDHeader = correlation.Header

	// CorrelationIDKey is the key used to store correlation ID in the context
	CorrelationIDKey = "correlation_id"

	// MaxCorrelationIDLength is the longest caller id kept as is
	MaxCorrelationIDLength = correlation.MaxLength
)

// CorrelationID tags each request with the caller's id, or a fresh UUID when
// the caller sent none or one that cannot be stored.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := correlation.Resolve(c.GetHeader(CorrelationIDHeader))

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)

		c.Next()
	}
}

// GetCorrelationID retrieves the correlation ID from the gin context if present
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
