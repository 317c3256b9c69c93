package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Upstream LLM provider
	LLMProvider     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	LLMModel        string
	LLMMaxTokens    int
	LLMTimeoutSecs  int
	SystemPrompt    string

	// Rate limiting
	AuthRateLimit      int
	SendRateLimit      int
	SendRateWindowSecs int

	// CORS
	AllowedOrigins []string
}

// DefaultSystemPrompt is used when SYSTEM_PROMPT is not configured.
const DefaultSystemPrompt = "You are Serenity, an empathetic companion. " +
	"Listen carefully, respond with warmth, and keep replies short and supportive."

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		LLMProvider:     getEnvOrDefault("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnvOrDefault("GEMINI_API_KEY", ""),
		LLMModel:        getEnvOrDefault("LLM_MODEL", ""),
		LLMMaxTokens:    getEnvAsIntOrDefault("LLM_MAX_TOKENS", 512),
		LLMTimeoutSecs:  getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 30),
		SystemPrompt:    getEnvOrDefault("SYSTEM_PROMPT", DefaultSystemPrompt),

		AuthRateLimit:      getEnvAsIntOrDefault("AUTH_RATE_LIMIT", 10),
		SendRateLimit:      getEnvAsIntOrDefault("SEND_RATE_LIMIT", 20),
		SendRateWindowSecs: getEnvAsIntOrDefault("SEND_RATE_WINDOW_SECONDS", 60),

		AllowedOrigins: splitOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	return cfg
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
