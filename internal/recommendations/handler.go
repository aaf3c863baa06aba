package recommendations

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/events"
	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/server/respond"
)

// Handler wires recommendation endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations/browse", h.browse)
	rg.GET("/recommendations/onboarding", h.onboarding)
}

func (h *Handler) browse(c *gin.Context) {
	c.Set(middleware.ModeKey, string(ModeBrowse))
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	res, err := h.Svc.Browse(requestContext(c), middleware.LearnerIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) onboarding(c *gin.Context) {
	c.Set(middleware.ModeKey, string(ModeOnboarding))
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	res, err := h.Svc.Onboarding(requestContext(c), middleware.LearnerIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if res.Status == StatusIncompleteProfile {
		respond.Error(c, http.StatusUnprocessableEntity, "incomplete_profile", res.Message, gin.H{
			"missingFields": res.MissingFields,
		})
		return
	}
	respond.OK(c, res)
}

func requestContext(c *gin.Context) context.Context {
	return events.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "learner not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute recommendations", nil)
}
