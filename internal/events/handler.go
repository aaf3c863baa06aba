package events

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/server/respond"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Handler exposes a learner's recommendation history.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/learners/me/events", h.list)
}

func (h *Handler) list(c *gin.Context) {
	if h.Repo == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	items, err := h.Repo.ListByLearner(c.Request.Context(), middleware.LearnerIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load events", nil)
		return
	}
	respond.OK(c, gin.H{"items": items})
}
