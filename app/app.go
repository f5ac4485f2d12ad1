// File: app/app.go
package app

import (
	"context"
	"fanpocket-api/config"
	"fanpocket-api/db"
	"fanpocket-api/handler"
	"fanpocket-api/logger"
	"fanpocket-api/repository"
	"fanpocket-api/router"
	"fanpocket-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database, config.AppConfig.Auth.MaxSessionsPerUser)

	userCache := service.NewUserCache(redisClient, config.AppConfig.Auth.UserCacheTTL)
	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, userCache)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(userService)

	r := router.NewRouter(authHandler, profileHandler, authService, userService)

	// Expired refresh-token entries are only removed on use; the sweep cleans
	// up sessions that were simply abandoned.
	sweepDone := make(chan struct{})
	go sweepExpiredTokens(tokenRepo, sweepDone)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

func sweepExpiredTokens(tokenRepo repository.ITokenRepository, done <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			removed, err := tokenRepo.DeleteExpired()
			if err != nil {
				continue
			}
			if removed > 0 {
				logger.Log.WithField("removed", removed).Info("Swept expired refresh tokens")
			}
		}
	}
}

// TestApp bundles the fully wired router for integration-style tests. Repos
// and cache are injected so the suite can run against fakes.
type TestApp struct {
	Router http.Handler
}

func NewTestApp(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, cache service.ICacheClient) *TestApp {
	userCache := service.NewUserCache(cache, config.AppConfig.Auth.UserCacheTTL)
	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, userCache)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(userService)

	return &TestApp{
		Router: router.NewRouter(authHandler, profileHandler, authService, userService),
	}
}
