// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Addr        string
	WebDir      string
	DatabaseURL string

	// ForwardAuth trusts the Remote-User header set by an authenticating
	// reverse proxy. Leave it off unless such a proxy fronts every request.
	ForwardAuth bool
	// Registration lets anyone create an account through /api/register.
	Registration bool

	// logging
	LogLevel      string
	LogFormatJSON bool
	LogFile       string
	LogToStdout   bool

	PredictionWindowDays int

	OIDC OIDCConfig
}

// OIDCConfig describes the optional SSO provider.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// Load reads configuration from the environment. Variables in the given
// .env files (default ".env") fill in anything not already set; missing
// files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Addr:          env("ADDR", ":8080"),
		WebDir:        env("WEB_DIR", "web"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ForwardAuth:   boolEnv("FORWARD_AUTH_ENABLED", false),
		Registration:  boolEnv("REGISTRATION_ENABLED", false),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogFormatJSON: boolEnv("LOG_FORMAT_JSON", false),
		LogToStdout:   boolEnv("LOG_TO_STDOUT", true),
		OIDC: OIDCConfig{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
	}

	days, err := strconv.Atoi(env("PREDICTION_WINDOW_DAYS", "90"))
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("PREDICTION_WINDOW_DAYS must be a positive integer, got %q", os.Getenv("PREDICTION_WINDOW_DAYS"))
	}
	cfg.PredictionWindowDays = days

	if cfg.OIDC.Enabled() && cfg.OIDC.RedirectURL == "" {
		return nil, errors.New("OIDC_REDIRECT_URL is required when OIDC_ISSUER is set")
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
