package courses

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/server/respond"
)

// Handler exposes the published catalog.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses", h.list)
}

func (h *Handler) list(c *gin.Context) {
	if h.Repo == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	level := strings.TrimSpace(c.Query("level"))
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	all, err := h.Repo.ListPublished(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load courses", nil)
		return
	}
	respond.OK(c, gin.H{"items": Filter(all, level, category)})
}

// Filter keeps courses at exactly level (when set) whose category contains category (when set).
func Filter(all []Course, level, category string) []Course {
	category = strings.ToLower(strings.TrimSpace(category))
	out := make([]Course, 0, len(all))
	for _, course := range all {
		if level != "" && !SameLevel(course.Level(), level) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(course.Category), category) {
			continue
		}
		out = append(out, course)
	}
	return out
}
