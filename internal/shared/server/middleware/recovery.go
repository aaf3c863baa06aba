package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/metrics"
	"learnpath-backend/internal/shared/server/respond"
	"learnpath-backend/internal/shared/telemetry"
)

// Recovery turns a panic in a course, learner or recommendation handler into a
// 500 envelope. The log line keeps the learner and mode so a crash in ranking
// can be traced to the request that triggered it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.FullPath(),
				"method":     c.Request.Method,
			}
			if learnerID := LearnerIDFromContext(c); learnerID != "" {
				fields["learner_id"] = learnerID
			}
			if mode := c.GetString(ModeKey); mode != "" {
				fields["mode"] = mode
			}
			telemetry.Error("http.panic", fields)
			metrics.IncPanics()
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
