package handler

import (
	"context"
	"fanpocket-api/common"
	"fanpocket-api/model"
	"fanpocket-api/service"
	"net/http"
	"strings"
)

type contextKey string

const UserKey contextKey = "user"

// UserFromContext returns the sanitized user attached by Authenticate, or
// nil when the request did not pass through it.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate verifies the bearer access token, loads the user and attaches
// the sanitized record to the request context. Every failure collapses to
// the same generic 401: the client must not learn whether the token was
// expired, malformed or belonged to a deleted account.
func Authenticate(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearer(r.Header.Get("Authorization"))
			if tokenString == "" {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or missing token", nil)
				appErr.Send(w)
				return
			}

			claims, err := authService.VerifyAccessToken(tokenString)
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or missing token", nil)
				appErr.Send(w)
				return
			}

			user, err := userService.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if err == service.ErrUserNotFound {
					// Deleted account; same generic answer as a bad token.
					appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or missing token", nil)
					appErr.Send(w)
					return
				}
				appErr := common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler to the given roles. It assumes Authenticate
// ran earlier; a missing context user means a middleware ordering bug and is
// answered with 401 rather than 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
				appErr.Send(w)
				return
			}
			if !allowed[user.Role] {
				appErr := common.NewAppError(http.StatusForbidden, "Access denied", nil)
				appErr.Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
