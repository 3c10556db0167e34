package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope every endpoint returns. Error responses
// carry either a single error string or a list of validation errors,
// never both.
type apiResponse struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Timestamp string   `json:"timestamp"`
}

func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func respondValidationErrors(c *gin.Context, errs []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiResponse{
		Success:   false,
		Errors:    errs,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

func respondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message)
}
