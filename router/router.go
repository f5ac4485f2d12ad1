package router

import (
	"fanpocket-api/handler"
	"fanpocket-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "fanpocket-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, profileHandler *handler.ProfileHandler,
	authService *service.AuthService, userService *service.UserService) http.Handler {

	authenticate := handler.Authenticate(authService, userService)

	authMux := http.NewServeMux()
	authMux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	authMux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	authMux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	authMux.Handle("POST /auth/logout", authenticate(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	authMux.Handle("GET /auth/me", authenticate(handler.ErrorHandlingMiddleware(profileHandler.Me)))
	authMux.Handle("PATCH /auth/me", authenticate(handler.ErrorHandlingMiddleware(profileHandler.UpdateProfile)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	// The CSRF guard fronts the whole auth surface: safe requests mint the
	// token, state-changing ones must echo it.
	mux.Handle("/auth/", handler.CSRFGuard(authMux))

	return mux
}
