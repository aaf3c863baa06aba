package courses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandlerListFiltersByQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo(
		Course{ID: "c1", Title: "Pandas", Category: "Data Science", Difficulty: Difficulty("Intermediate"), Published: true},
		Course{ID: "c2", Title: "Figma", Category: "Design", Difficulty: Difficulty("Intermediate"), Published: true},
		Course{ID: "c3", Title: "Spark", Category: "Data Science", Difficulty: Difficulty("Advanced"), Published: true},
		Course{ID: "c4", Title: "Draft", Category: "Data Science", Difficulty: Difficulty("Intermediate"), Published: false},
	)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses?level=intermediate&category=data", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Items []Course `json:"items"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "c1" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
}
