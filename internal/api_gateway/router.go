package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/call-detail-billing/internal/api_gateway/handler"
	"github.com/call-detail-billing/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	callHandler *handler.CallHandler,
) {
	// CorrelationID runs first so the access log and panic log both carry it
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		calls := v1.Group("/calls")
		{
			calls.POST("", callHandler.Submit)
			calls.GET("", callHandler.GetBill)
			calls.GET("/:call_id", callHandler.GetArchivedCall)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
