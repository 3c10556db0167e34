package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter() *gin.Engine {
	h := newTestHandler(&fakeTaskService{})
	router := gin.New()
	router.POST("/protected", h.HandleAuthMiddleware, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newProtectedRouter()

	w := performRequest(router, http.MethodPost, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Authorization header is required", resp.Error)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router := newProtectedRouter()

	for _, header := range []string{"Token abc", "Bearer ", "bearer abc"} {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}
