package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"API_BASE_URL", "VERIFY_BASE_URL", "REQUEST_TIMEOUT_SECONDS", "ALLOWED_ORIGINS", "BRIDGE_TOKEN"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.Equal(t, "http://localhost:4000/api/v1", cfg.APIBaseURL)
	require.Equal(t, "http://localhost:4000/api/v1/certificate/verify", cfg.VerifyBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Nil(t, cfg.AllowedOrigins)
	require.Empty(t, cfg.BridgeToken)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/v1/")
	t.Setenv("VERIFY_BASE_URL", "https://example.com/verify/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "abc")
	t.Setenv("QUIZ_CACHE_TTL_SECONDS", "5")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	require.Equal(t, "https://api.example.com/api/v1", cfg.APIBaseURL)
	require.Equal(t, "https://example.com/verify", cfg.VerifyBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 5*time.Second, cfg.QuizCacheTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestQuizKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "course:abc:quiz:s1", CacheKey.QuizKey("abc", "s1"))
	require.Equal(t, "course:abc:quiz-scopes", CacheKey.QuizScopesKey("abc"))
}
