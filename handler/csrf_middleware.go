// file: handler/csrf_middleware.go

package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fanpocket-api/common"
	"fanpocket-api/config"
	"net/http"
	"time"
)

const (
	// CSRFCookieName is readable by client script on purpose: the
	// double-submit defense requires the page to copy the cookie value into
	// the request header, which a cross-site attacker cannot do.
	CSRFCookieName = "csrf-token"
	CSRFHeaderName = "X-CSRF-Token"
)

func mintCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CSRFGuard implements the double-submit defense. Safe methods receive a
// fresh token cookie; unsafe methods must echo the cookie value in the
// X-CSRF-Token header. This runs before the access-token check and protects
// the cookie-based refresh flow even though the access token itself travels
// in a header.
func CSRFGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := mintCSRFToken()
			if err != nil {
				appErr := common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
				appErr.Send(w)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CSRFCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(config.AppConfig.Auth.CSRFTokenTTL / time.Second),
				HttpOnly: false,
				Secure:   config.AppConfig.Server.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CSRFCookieName)
		header := r.Header.Get(CSRFHeaderName)
		if err != nil || cookie.Value == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			appErr := common.NewAppError(http.StatusForbidden, "CSRF token missing or invalid", nil)
			appErr.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
