// handler/main_test.go
package handler

import (
	"fanpocket-api/config"
	"fanpocket-api/logger"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	logger.Init()

	config.AppConfig = config.Config{}
	config.AppConfig.JWT.AccessSecret = "test-access-secret"
	config.AppConfig.JWT.RefreshSecret = "test-refresh-secret"
	config.AppConfig.Auth.AccessTokenTTL = 15 * time.Minute
	config.AppConfig.Auth.RefreshTokenTTL = 7 * 24 * time.Hour
	config.AppConfig.Auth.CSRFTokenTTL = time.Hour
	config.AppConfig.Auth.BcryptCost = bcrypt.MinCost
	config.AppConfig.Auth.LoginFailureDelay = 5 * time.Millisecond

	os.Exit(m.Run())
}
