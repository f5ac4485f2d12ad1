// file: handler/cookies.go

package handler

import (
	"fanpocket-api/config"
	"net/http"
	"time"
)

const (
	// RefreshCookieName carries the raw refresh token. HTTP-only and
	// path-scoped so it is only ever sent to the refresh endpoint.
	RefreshCookieName = "refresh-token"
	refreshCookiePath = "/auth/refresh"
)

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(config.AppConfig.Auth.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   config.AppConfig.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.AppConfig.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
