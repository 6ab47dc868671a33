package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment-supplied settings for the chatbot service.
type Config struct {
	Port        string
	DatabaseURL string

	// Provider selection
	LLMProvider       string // "bedrock" or "groq"
	EmbeddingProvider string // "bedrock" or "openai"

	// Bedrock
	AWSRegion         string
	ClaudeModelID     string
	TitanEmbedModelID string

	// Groq / OpenAI-compatible endpoints
	GroqAPIKey         string
	GroqModelID        string
	GroqBaseURL        string
	OpenAIEmbedKey     string
	OpenAIEmbedModelID string
	OpenAIEmbedBaseURL string

	// Retrieval
	EmbeddingDim      int
	TopK              int
	ContextCharBudget int

	// Per-stage timeouts
	EmbedTimeout    time.Duration
	RetrieveTimeout time.Duration
	GenerateTimeout time.Duration

	// Redis search cache (disabled when addr is empty)
	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("CHAT_API_PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		TitanEmbedModelID: getEnv("TITAN_EMBED_MODEL_ID", "amazon.titan-embed-text-v2:0"),

		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GroqModelID:        getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIEmbedKey:     getEnv("OPENAI_EMBED_KEY", ""),
		OpenAIEmbedModelID: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		OpenAIEmbedBaseURL: getEnv("OPENAI_EMBED_BASE_URL", ""),

		EmbeddingDim:      getEnvInt("EMBEDDING_DIM", 384),
		TopK:              getEnvInt("RETRIEVAL_TOP_K", 5),
		ContextCharBudget: getEnvInt("CONTEXT_CHAR_BUDGET", 6000),

		EmbedTimeout:    getEnvDuration("EMBED_TIMEOUT", 5*time.Second),
		RetrieveTimeout: getEnvDuration("RETRIEVE_TIMEOUT", 5*time.Second),
		GenerateTimeout: getEnvDuration("GENERATE_TIMEOUT", 30*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 30*time.Minute),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
