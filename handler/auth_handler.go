package handler

import (
	"encoding/json"
	"errors"
	"fanpocket-api/common"
	"fanpocket-api/logger"
	"fanpocket-api/model"
	"fanpocket-api/service"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// authResponse is the body of every successful register/login/refresh call.
// The access token is returned here and expected back as a bearer header;
// the refresh token never appears in a body.
type authResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "registration payload"
// @Success      201 {object} handler.authResponse
// @Failure      400 {object} common.AppError
// @Failure      409 {object} common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, pair, err := h.authService.Register(req, r.UserAgent(), clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Registration request completed")

	setRefreshCookie(w, pair.RefreshToken)
	respondJSON(w, http.StatusCreated, authResponse{User: user.Sanitize(), AccessToken: pair.AccessToken})
	return nil
}

// Login godoc
// @Summary      Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "login payload"
// @Success      200 {object} handler.authResponse
// @Failure      400 {object} common.AppError
// @Failure      401 {object} common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, pair, err := h.authService.Login(req.Email, req.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	setRefreshCookie(w, pair.RefreshToken)
	respondJSON(w, http.StatusOK, authResponse{User: user.Sanitize(), AccessToken: pair.AccessToken})
	return nil
}

// Refresh godoc
// @Summary      Rotate the refresh token and mint a new access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} handler.authResponse
// @Failure      401 {object} common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		clearRefreshCookie(w)
		return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil)
	}

	user, pair, err := h.authService.Refresh(cookie.Value, r.UserAgent(), clientIP(r))
	if err != nil {
		// Whatever went wrong (forged, expired, already rotated out), the
		// client gets the same answer and loses its cookie.
		clearRefreshCookie(w)
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	setRefreshCookie(w, pair.RefreshToken)
	respondJSON(w, http.StatusOK, authResponse{User: user.Sanitize(), AccessToken: pair.AccessToken})
	return nil
}

// Logout godoc
// @Summary      End the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      401 {object} common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	user := UserFromContext(r.Context())
	if user == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	rawToken := ""
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		rawToken = cookie.Value
	}

	if err := h.authService.Logout(user.ID, rawToken); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	clearRefreshCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}
