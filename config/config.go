package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port         string `mapstructure:"port"`
		CookieSecure bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	JWT struct {
		// Access and refresh tokens are signed with separate secrets so that
		// leaking one key never allows forging the other kind of token.
		AccessSecret  string `mapstructure:"access_secret"`
		RefreshSecret string `mapstructure:"refresh_secret"`
	} `mapstructure:"jwt"`
	Auth struct {
		AccessTokenTTL     time.Duration `mapstructure:"access_token_ttl"`
		RefreshTokenTTL    time.Duration `mapstructure:"refresh_token_ttl"`
		CSRFTokenTTL       time.Duration `mapstructure:"csrf_token_ttl"`
		UserCacheTTL       time.Duration `mapstructure:"user_cache_ttl"`
		BcryptCost         int           `mapstructure:"bcrypt_cost"`
		LoginFailureDelay  time.Duration `mapstructure:"login_failure_delay"`
		MaxSessionsPerUser int           `mapstructure:"max_sessions_per_user"`
	} `mapstructure:"auth"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()
	setDefaults()

	// A missing config file is fine (tests, containerized deployments driven
	// purely by env vars); a malformed one is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.cookie_secure", false)
	viper.SetDefault("auth.access_token_ttl", 15*time.Minute)
	viper.SetDefault("auth.refresh_token_ttl", 7*24*time.Hour)
	viper.SetDefault("auth.csrf_token_ttl", time.Hour)
	viper.SetDefault("auth.user_cache_ttl", 5*time.Minute)
	viper.SetDefault("auth.bcrypt_cost", 12)
	viper.SetDefault("auth.login_failure_delay", 100*time.Millisecond)
	viper.SetDefault("auth.max_sessions_per_user", 10)
}
