package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/metrics"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

// HandleAuthMiddleware validates the Bearer access token, checks that
// the session it points to still exists and belongs to the caller, and
// stores the user and session ids in the request context.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		respondError(c, http.StatusUnauthorized, "Authorization header is required")
		c.Abort()
		return
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		respondError(c, http.StatusUnauthorized, "Invalid authorization header")
		c.Abort()
		return
	}

	claims, err := h.auth.ParseJWTToken(token)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse access token")
		respondError(c, http.StatusUnauthorized, "Invalid access token")
		c.Abort()
		return
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Session not found")
		c.Abort()
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		respondInternalError(c, "Authorization failed")
		c.Abort()
		return
	}
	if session.Fingerprint != fingerprint {
		h.logger.Warn().
			Str("session_id", session.ID).
			Msg("session fingerprint mismatch")
		respondError(c, http.StatusUnauthorized, "Session fingerprint mismatch")
		c.Abort()
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// MetricsMiddleware counts every request by method, matched route and
// response status. Unmatched routes are reported under their raw path
// so 404 noise stays visible.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
