package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/auth"
	"learnpath-backend/internal/shared/server/respond"
)

const (
	learnerIDKey   = "learnerId"
	learnerNameKey = "learnerName"
	devHeader      = "X-Learner-Id"
)

// Auth validates bearer JWTs and stores the learner identity in context.
// Outside production-like environments an X-Learner-Id header is also accepted.
func Auth(env string) gin.HandlerFunc {
	devLike := isDevLike(env)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(learnerIDKey, claims.Subject)
			if claims.Name != "" {
				c.Set(learnerNameKey, claims.Name)
			}
			c.Next()
			return
		}

		if devLike {
			if learnerID := strings.TrimSpace(c.GetHeader(devHeader)); learnerID != "" {
				c.Set(learnerIDKey, learnerID)
				c.Next()
				return
			}
		}

		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	}
}

// LearnerIDFromContext fetches the learner ID set by the auth middleware.
func LearnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(learnerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// LearnerNameFromContext fetches the display name carried by the token, if any.
func LearnerNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(learnerNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
