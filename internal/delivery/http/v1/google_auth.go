package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleGoogleAuthURL returns the consent URL to start the one-time
// OAuth2 setup for the Google integrations.
func (h *handlerImpl) HandleGoogleAuthURL(c *gin.Context) {
	if !h.creds.Configured() {
		respondError(c, http.StatusServiceUnavailable, "Google credentials file not configured")
		return
	}

	authURL, err := h.creds.AuthURL()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to build google auth url")
		respondInternalError(c, "Failed to build authorization URL")
		return
	}

	respondSuccess(c, http.StatusOK, "Visit the URL and authorize access", gin.H{
		"auth_url": authURL,
	})
}

type googleAuthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// HandleGoogleAuthCallback exchanges the authorization code for a
// token and caches it, completing the integration setup.
func (h *handlerImpl) HandleGoogleAuthCallback(c *gin.Context) {
	var req googleAuthCallbackRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Authorization code is required")
		return
	}

	err = h.creds.SaveToken(c, req.Code)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to exchange authorization code")
		respondError(c, http.StatusBadGateway, "Failed to exchange authorization code")
		return
	}

	h.logger.Info().Msg("google integrations authorized")
	respondSuccess(c, http.StatusOK, "Google integrations authorized", gin.H{
		"gmail":    h.mail.Status(),
		"sheets":   h.sheets.Status(),
		"calendar": h.calendar.Status(),
	})
}
