package config

import (
	"time"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/config"
)

// Config stores environment configuration for the support agent.
type Config struct {
	Port                string
	DatabaseURL         string
	DataDir             string
	LLMProvider         string
	LLMModel            string
	LLMAPIKey           string
	LLMAPIURL           string
	LLMMaxTokens        int
	LLMTimeout          time.Duration
	EmbeddingProvider   string
	EmbeddingModel      string
	EmbeddingAPIKey     string
	EmbeddingAPIURL     string
	EmbeddingDimensions int
	MaxToolRounds       int
	RetrievalTopK       int
	RequestTimeout      time.Duration
	MaxHistoryMessages  int
	CacheMaxEntries     int
	CacheTTL            time.Duration
	// FixedToday pins the agent's notion of "today" (YYYY-MM-DD) for demos
	// and evaluation runs. Empty means wall clock.
	FixedToday string
}

// LoadConfig loads the support agent configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:                config.GetEnv("PORT", "18090"),
		DatabaseURL:         config.GetEnv("DATABASE_URL", ""),
		DataDir:             config.GetEnv("DATA_DIR", ""),
		LLMProvider:         config.GetEnv("LLM_PROVIDER", "openai"),
		LLMModel:            config.GetEnv("LLM_MODEL", ""),
		LLMAPIKey:           config.GetEnv("LLM_API_KEY", ""),
		LLMAPIURL:           config.GetEnv("LLM_API_URL", ""),
		LLMMaxTokens:        config.GetEnvInt("LLM_MAX_TOKENS", 4096),
		LLMTimeout:          config.GetEnvDuration("LLM_TIMEOUT", 60*time.Second),
		EmbeddingProvider:   config.GetEnv("EMBEDDING_PROVIDER", config.GetEnv("LLM_PROVIDER", "")),
		EmbeddingModel:      config.GetEnv("EMBEDDING_MODEL", ""),
		EmbeddingAPIKey:     config.GetEnv("EMBEDDING_API_KEY", config.GetEnv("LLM_API_KEY", "")),
		EmbeddingAPIURL:     config.GetEnv("EMBEDDING_API_URL", config.GetEnv("LLM_API_URL", "")),
		EmbeddingDimensions: config.GetEnvInt("EMBEDDING_DIMENSIONS", 0),
		MaxToolRounds:       config.GetEnvInt("AGENT_MAX_TOOL_ROUNDS", 10),
		RetrievalTopK:       config.GetEnvInt("AGENT_RETRIEVAL_TOP_K", 4),
		RequestTimeout:      config.GetEnvDuration("AGENT_REQUEST_TIMEOUT", 120*time.Second),
		MaxHistoryMessages:  config.GetEnvInt("AGENT_MAX_HISTORY_MESSAGES", 20),
		CacheMaxEntries:     config.GetEnvInt("AGENT_CACHE_MAX_ENTRIES", 100),
		CacheTTL:            config.GetEnvDuration("AGENT_CACHE_TTL", 0),
		FixedToday:          config.GetEnv("AGENT_FIXED_TODAY", ""),
	}
}
