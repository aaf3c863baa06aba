package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const jsonContentType = "application/json; charset=utf-8"

// JSON encodes payload with go-json and writes it with the given status.
// Responses are learner-specific, so they are never cached by intermediaries.
func JSON(c *gin.Context, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		Error(c, http.StatusInternalServerError, "encode_failed", "Response could not be encoded", nil)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(status, jsonContentType, body)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}
