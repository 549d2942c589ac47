package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	RedisURL     string
	PlanCacheTTL time.Duration
	JWTSecret    string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	// LLMRequestsPerMinute caps the LLM-backed HTTP endpoints. Zero disables the limit.
	LLMRequestsPerMinute int

	Port      string
	LogLevel  string
	LogFormat string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// LoadDotEnv loads variables from a .env file when one exists.
// Variables already present in the environment are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", provider)
	}

	cacheTTL := 24 * time.Hour
	if raw := os.Getenv("PLAN_CACHE_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PLAN_CACHE_TTL %q: %w", raw, err)
		}
		cacheTTL = d
	}

	llmRPM := 20
	if raw := os.Getenv("LLM_REQUESTS_PER_MINUTE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid LLM_REQUESTS_PER_MINUTE %q", raw)
		}
		llmRPM = n
	}

	// Telegram Config (optional, the bot is only started when a token is present)
	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	return &Config{
		DatabasePath:           getEnv("DATABASE_PATH", "data/weekly-menu.db"),
		RedisURL:               os.Getenv("REDIS_URL"),
		PlanCacheTTL:           cacheTTL,
		JWTSecret:              jwtSecret,
		LLMProvider:            provider,
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GroqAPIKey:             groqAPIKey,
		GroqModel:              getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		LLMRequestsPerMinute:   llmRPM,
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
