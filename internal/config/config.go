// Package config loads server configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings.
type Config struct {
	// HTTP
	Addr              string
	CORSAllowedOrigin string

	// Store
	DatabasePath string

	// Tokens / codes
	JWTSecret string
	CodeTTL   time.Duration

	// Avatars
	UploadDir          string
	UploadPublicPrefix string

	// Email. When SMTPAddr is empty, emails are logged instead of sent.
	SMTPAddr     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	SiteName     string

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getenv("ADDR", ":3001"),
		CORSAllowedOrigin: getenv("CORS_ALLOWED_ORIGIN", "*"),

		DatabasePath: getenv("DATABASE_PATH", "auth.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		CodeTTL:   getdur("CODE_TTL", 10*time.Minute),

		UploadDir:          getenv("UPLOAD_DIR", "uploads"),
		UploadPublicPrefix: getenv("UPLOAD_PUBLIC_PREFIX", "/uploads"),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getenv("EMAIL_FROM", "no-reply@cinesocial.app"),
		SiteName:     getenv("SITE_NAME", "CineSocial"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
	}
	return def
}
