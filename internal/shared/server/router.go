package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/events"
	"learnpath-backend/internal/learners"
	"learnpath-backend/internal/recommendations"
	"learnpath-backend/internal/services/health"
	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/metrics"
	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/server/respond"
)

const (
	rateGroupRecommendations = "RECOMMENDATIONS"
	rateGroupDefault         = "DEFAULT"
)

// RouterDeps groups handlers and services used by the router.
type RouterDeps struct {
	Config                 config.Config
	Health                 *health.Service
	CourseHandler          *courses.Handler
	LearnerHandler         *learners.Handler
	RecommendationsHandler *recommendations.Handler
	EventsHandler          *events.Handler
	RateLimiter            *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authed := api.Group("")
	authed.Use(
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig(cfg, deps.RateLimiter)),
	)
	registerMeRoutes(authed)
	if deps.CourseHandler != nil {
		deps.CourseHandler.RegisterRoutes(authed)
	}
	if deps.LearnerHandler != nil {
		deps.LearnerHandler.RegisterRoutes(authed)
	}
	if deps.RecommendationsHandler != nil {
		deps.RecommendationsHandler.RegisterRoutes(authed)
	}
	if deps.EventsHandler != nil {
		deps.EventsHandler.RegisterRoutes(authed)
	}

	return r
}

// rateLimitConfig gives recommendation computations their own bucket, sized
// from config; everything else shares a roomier default bucket.
func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateGroupRecommendations: {Rate: rps, Burst: burst},
			rateGroupDefault:         {Rate: rps * 4, Burst: burst * 2},
		},
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if strings.Contains(c.FullPath(), "/recommendations/") {
				return rateGroupRecommendations
			}
			return rateGroupDefault
		},
		Limiter: limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
