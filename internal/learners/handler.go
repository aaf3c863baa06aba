package learners

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/learners/me", h.me)
	rg.PUT("/learners/me/profile", h.updateProfile)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	learnerID := middleware.LearnerIDFromContext(c)
	profile, err := h.Svc.GetByID(c.Request.Context(), learnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "learner not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load learner", nil)
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) updateProfile(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = middleware.LearnerNameFromContext(c)
	}

	profile, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.LearnerIDFromContext(c), req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.Fields)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		return
	}
	respond.OK(c, profile)
}
