package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath-backend/internal/shared/server/middleware"
)

func TestHandlerListsOwnHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	for i, learner := range []string{"l1", "l1", "l2"} {
		require.NoError(t, repo.Append(context.Background(), Event{
			ID: string(rune('a' + i)), LearnerID: learner, Mode: "BROWSE", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth("dev"))
	NewHandler(repo).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/learners/me/events?limit=5", nil)
	req.Header.Set("X-Learner-Id", "l1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Items []Event `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "b", body.Items[0].ID)
}

func TestHandlerRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth("dev"))
	NewHandler(NewMemoryRepo()).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/learners/me/events?limit=abc", nil)
	req.Header.Set("X-Learner-Id", "l1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
