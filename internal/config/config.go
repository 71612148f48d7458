package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs, resolved once at startup.
type Config struct {
	Port        string
	DatabaseURL string
	EnableDB    bool

	ArtifactsDir string
	// NeutralConfidence renders an undeterminable confidence as 0.5 instead
	// of null.
	NeutralConfidence bool

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	GeoBaseURL   string
	GeoUserAgent string
}

// Load reads .env (if present) and the environment. DATABASE_URL is required
// when the database is enabled; the JWT secret is always required since every
// protected route depends on it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		EnableDB:          strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		ArtifactsDir:      getEnv("ARTIFACTS_DIR", "artifacts"),
		NeutralConfidence: strings.EqualFold(getEnv("NEUTRAL_CONFIDENCE", "false"), "true"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		GeoBaseURL:   getEnv("GEO_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeoUserAgent: getEnv("GEO_USER_AGENT", "healwise-server/1.0"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// GoogleEnabled reports whether the OAuth routes can be served.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
