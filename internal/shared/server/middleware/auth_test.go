package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"learnpath-backend/internal/shared/auth"
)

func newAuthRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(env))
	router.GET("/api/v1/recommendations/browse", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"learnerId": LearnerIDFromContext(c), "name": LearnerNameFromContext(c)})
	})
	router.OPTIONS("/api/v1/recommendations/browse", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter("dev")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations/browse", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-secret")
	token, err := auth.SignJWT(auth.Claims{Name: "Ada", RegisteredClaims: jwt.RegisteredClaims{Subject: "learner-7"}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	router := newAuthRouter("production")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/browse", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if body := resp.Body.String(); body != `{"learnerId":"learner-7","name":"Ada"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthDevHeaderOnlyOutsideProduction(t *testing.T) {
	cases := []struct {
		env  string
		want int
	}{
		{env: "dev", want: http.StatusOK},
		{env: "local", want: http.StatusOK},
		{env: "production", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			router := newAuthRouter(tc.env)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/browse", nil)
			req.Header.Set("X-Learner-Id", "learner-1")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	router := newAuthRouter("dev")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/browse", nil)
	req.Header.Set("Authorization", "Token abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
