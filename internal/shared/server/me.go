package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler echoes the caller identity resolved by the auth middleware.
func meHandler(c *gin.Context) {
	learnerID := middleware.LearnerIDFromContext(c)
	if learnerID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{"learnerId": learnerID}
	if name := middleware.LearnerNameFromContext(c); name != "" {
		response["name"] = name
	}
	respond.JSON(c, http.StatusOK, response)
}
