package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	APIBaseURL     string
	VerifyBaseURL  string
	RequestTimeout time.Duration
	DownloadDir    string
	LogLevel       string
	LogFormat      string
	// Token is the bearer credential. Empty means the CLI prompts for it.
	Token string
	// RedisURL enables the quiz cache and the notification relay. Empty disables both.
	RedisURL      string
	QuizCacheTTL  time.Duration
	NotifyChannel string
	BridgePort    string
	// BridgeToken guards the bridge WebSocket. Empty leaves it open.
	BridgeToken string
	GinMode     string
	// AllowedOrigins controls bridge CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	apiBase := strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:4000/api/v1"), "/")

	return &Config{
		APIBaseURL:     apiBase,
		VerifyBaseURL:  strings.TrimRight(getEnv("VERIFY_BASE_URL", apiBase+"/certificate/verify"), "/"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		DownloadDir:    getEnv("DOWNLOAD_DIR", "."),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		Token:          getEnv("QUIZ_TOKEN", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		QuizCacheTTL:   time.Duration(getEnvInt("QUIZ_CACHE_TTL_SECONDS", 60)) * time.Second,
		NotifyChannel:  getEnv("NOTIFY_CHANNEL", "quizctl:notifications"),
		BridgePort:     getEnv("BRIDGE_PORT", "8090"),
		BridgeToken:    getEnv("BRIDGE_TOKEN", ""),
		GinMode:        getEnv("GIN_MODE", "release"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
