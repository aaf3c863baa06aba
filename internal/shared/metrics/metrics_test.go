package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecommendationIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(recommendationsTotal.WithLabelValues("BROWSE", "ok"))
	ObserveRecommendation("BROWSE", "ok", 3, 15*time.Millisecond)
	after := testutil.ToFloat64(recommendationsTotal.WithLabelValues("BROWSE", "ok"))
	if after != before+1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncEventFailures()

	r := gin.New()
	r.GET("/metrics", Handler())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "recommendation_event_failures_total") {
		t.Fatalf("expected event failure counter in output")
	}
}

func TestIncPanicsIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(httpPanicsTotal)
	IncPanics()
	if got := testutil.ToFloat64(httpPanicsTotal); got != before+1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, got)
	}
}
