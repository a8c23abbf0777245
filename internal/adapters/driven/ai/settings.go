package ai

import (
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Supported AI providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Configuration keys read from the config store.
const (
	keyEmbeddingProvider   = "embedding.provider"
	keyEmbeddingModel      = "embedding.model"
	keyEmbeddingAPIKey     = "embedding.api_key"
	keyEmbeddingBaseURL    = "embedding.base_url"
	keyEmbeddingDimensions = "embedding.dimensions"

	keyLLMProvider = "llm.provider"
	keyLLMModel    = "llm.model"
	keyLLMAPIKey   = "llm.api_key"
	keyLLMBaseURL  = "llm.base_url"
	keyLLMRPM      = "llm.requests_per_minute"
)

// EmbeddingSettings holds the configuration for an embedding provider.
type EmbeddingSettings struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// IsConfigured reports whether the settings describe a usable provider.
// Ollama runs locally and needs no key; hosted providers need one.
func (s *EmbeddingSettings) IsConfigured() bool {
	switch s.Provider {
	case ProviderOllama:
		return true
	case ProviderOpenAI:
		return s.APIKey != ""
	default:
		return false
	}
}

// LLMSettings holds the configuration for a generative provider.
type LLMSettings struct {
	Provider          string
	Model             string
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
}

// IsConfigured reports whether the settings describe a usable provider.
func (s *LLMSettings) IsConfigured() bool {
	switch s.Provider {
	case ProviderOllama:
		return true
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return s.APIKey != ""
	default:
		return false
	}
}

// LoadEmbeddingSettings reads embedding provider settings from the config store.
func LoadEmbeddingSettings(cfg driven.ConfigStore) *EmbeddingSettings {
	return &EmbeddingSettings{
		Provider:   cfg.GetString(keyEmbeddingProvider),
		Model:      cfg.GetString(keyEmbeddingModel),
		APIKey:     cfg.GetString(keyEmbeddingAPIKey),
		BaseURL:    cfg.GetString(keyEmbeddingBaseURL),
		Dimensions: cfg.GetInt(keyEmbeddingDimensions),
	}
}

// LoadLLMSettings reads generative provider settings from the config store.
func LoadLLMSettings(cfg driven.ConfigStore) *LLMSettings {
	return &LLMSettings{
		Provider:          cfg.GetString(keyLLMProvider),
		Model:             cfg.GetString(keyLLMModel),
		APIKey:            cfg.GetString(keyLLMAPIKey),
		BaseURL:           cfg.GetString(keyLLMBaseURL),
		RequestsPerMinute: cfg.GetInt(keyLLMRPM),
	}
}
