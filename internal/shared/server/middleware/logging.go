package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/telemetry"
)

// ModeKey is set by recommendation handlers so request logs carry the mode.
const ModeKey = "recommendationMode"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		mode, _ := c.Get(ModeKey)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"learner_id":  LearnerIDFromContext(c),
			"mode":        mode,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
