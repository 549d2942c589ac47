package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("JWT_SECRET", "secret")
		setEnv("LLM_PROVIDER", "")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("PLAN_CACHE_TTL", "")
		setEnv("LLM_REQUESTS_PER_MINUTE", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, ProviderGemini, cfg.LLMProvider)
		assert.Equal(t, "gemini_key", cfg.GeminiAPIKey)
		assert.Equal(t, 24*time.Hour, cfg.PlanCacheTTL)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 20, cfg.LLMRequestsPerMinute)
		assert.Equal(t, []int64{12, 34}, cfg.TelegramAllowedUserIDs)
	})

	t.Run("MissingJWTSecret", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		os.Unsetenv("JWT_SECRET")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "JWT_SECRET environment variable not set", err.Error())
	})

	t.Run("MissingGroqKeyWhenSelected", func(t *testing.T) {
		setEnv("JWT_SECRET", "secret")
		setEnv("LLM_PROVIDER", "groq")
		os.Unsetenv("GROQ_API_KEY")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "GROQ_API_KEY environment variable not set", err.Error())
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		setEnv("JWT_SECRET", "secret")
		setEnv("LLM_PROVIDER", "openai")

		_, err := NewFromEnv()
		require.Error(t, err)
	})

	t.Run("InvalidCacheTTL", func(t *testing.T) {
		setEnv("JWT_SECRET", "secret")
		setEnv("LLM_PROVIDER", "gemini")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("PLAN_CACHE_TTL", "tomorrow")

		_, err := NewFromEnv()
		require.Error(t, err)
	})

	t.Run("InvalidRateLimit", func(t *testing.T) {
		setEnv("JWT_SECRET", "secret")
		setEnv("LLM_PROVIDER", "gemini")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("PLAN_CACHE_TTL", "")
		setEnv("LLM_REQUESTS_PER_MINUTE", "-1")

		_, err := NewFromEnv()
		require.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEEKLY_MENU_TEST_VAR=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("WEEKLY_MENU_TEST_VAR") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("WEEKLY_MENU_TEST_VAR"))
}
