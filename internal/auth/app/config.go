package app

import (
	"os"
	"strconv"
	"time"

	"github.com/careerhive/careerhive/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim stamped on every token (default: careerhive-auth)
	SigningKeyFile string // Optional: path to an Ed25519 PKCS8 PEM; empty means ephemeral keys

	AccessTTL  time.Duration // Access token lifetime (default: 30m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 14 days)

	DatabaseFile string // Path to the SQLite database file (default: ./auth.db)
	RedisURL     string // Optional: redis URL for the token store; empty means in-memory

	// OAuth providers. A provider with an empty client id stays unregistered.
	Google OAuthCredentials
	Kakao  OAuthCredentials
	Naver  OAuthCredentials

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// OAuthCredentials is one provider's client registration.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether the provider was registered at all.
func (c OAuthCredentials) Configured() bool {
	return c.ClientID != ""
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "careerhive-auth"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"), // Optional: ephemeral when unset

		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		RedisURL:     os.Getenv("REDIS_URL"), // Optional: in-memory when unset

		Google: loadOAuthCredentials("GOOGLE"),
		Kakao:  loadOAuthCredentials("KAKAO"),
		Naver:  loadOAuthCredentials("NAVER"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func loadOAuthCredentials(prefix string) OAuthCredentials {
	return OAuthCredentials{
		ClientID:     os.Getenv("OAUTH_" + prefix + "_CLIENT_ID"),
		ClientSecret: os.Getenv("OAUTH_" + prefix + "_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("OAUTH_" + prefix + "_REDIRECT_URL"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
