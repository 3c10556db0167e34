package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		respondInternalError(c, "Login failed")
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			respondInternalError(c, "Login failed")
		}
		return
	}

	setTokenCookies(c, result)
	respondSuccess(c, http.StatusOK, "Logged in successfully", gin.H{
		"user_id":      result.UserID,
		"access_token": result.AccessToken,
		"expires_at":   result.AccessTokenExpiresAt.Format(time.RFC3339),
	})
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Refresh token cookie is required")
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		respondInternalError(c, "Refresh failed")
		return
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, services.ErrSessionExpired):
			respondError(c, http.StatusUnauthorized, err.Error())
		default:
			respondInternalError(c, "Refresh failed")
		}
		return
	}

	setTokenCookies(c, result)
	respondSuccess(c, http.StatusOK, "Session refreshed", gin.H{
		"access_token": result.AccessToken,
		"expires_at":   result.AccessTokenExpiresAt.Format(time.RFC3339),
	})
}

type registerRequest struct {
	loginRequest
	Name     string `json:"name" binding:"max=255"`
	Timezone string `json:"timezone" binding:"max=64"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		respondInternalError(c, "Registration failed")
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Timezone:    req.Timezone,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			respondError(c, http.StatusConflict, services.ErrUserAlreadyExists.Error())
			return
		}
		respondInternalError(c, "Registration failed")
		return
	}

	setTokenCookies(c, result)
	respondSuccess(c, http.StatusCreated, "Registered successfully", gin.H{
		"user_id":      result.UserID,
		"access_token": result.AccessToken,
		"expires_at":   result.AccessTokenExpiresAt.Format(time.RFC3339),
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	err := h.auth.Logout(c, userID)
	if err != nil {
		respondInternalError(c, "Logout failed")
		return
	}

	clearCookie(c, accessTokenCookie)
	clearCookie(c, refreshTokenCookie)

	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func setTokenCookies(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	setCookie(c, accessTokenCookie, result.AccessToken, result.AccessTokenExpiresAt.Sub(now), false)
	setCookie(c, refreshTokenCookie, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now), true)
}

func setCookie(c *gin.Context, name, value string, maxAge time.Duration, httpOnly bool) {
	const secure = false
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, false)
}
