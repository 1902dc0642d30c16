package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the application configuration, consumed read-only by the
// authentication core. CookieName is optional: when empty, tokens travel
// bearer-header-only and the login response carries the raw token.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// CookieName names the session cookie. Empty means bearer-only transport.
	CookieName string `env:"COOKIE_NAME"`
	// SecureCookies marks session cookies Secure. Disable only for local dev.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`

	// LoginPage points at an HTML file containing the {0} proceed placeholder.
	// Empty means the built-in login form is served.
	LoginPage   string `env:"LOGIN_PAGE"`
	RoutePrefix string `env:"ROUTE_PREFIX"`
	// IdentityParam is the gin context key the resolved identity is bound to
	// for protected handlers.
	IdentityParam string `env:"IDENTITY_PARAM" envDefault:"user"`

	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	VerifierTimeout time.Duration `env:"VERIFIER_TIMEOUT" envDefault:"5s"`

	DatabaseDSN   string `env:"DATABASE_DSN"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

var loadEnvOnce sync.Once

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (Config, error) {
	loadEnvOnce.Do(func() {
		// the .env file is optional
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
