// Package ai provides factory functions for creating AI service adapters
// from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/contralens/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/contralens/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/contralens/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/contralens/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/contralens/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/contralens/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/contralens/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused degraded behaviour.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds embedding and LLM services from configuration. Unreachable
// or unconfigured providers become warnings, never errors: the rest of
// the application degrades (unindexed contracts, deterministic analysis)
// instead of refusing to start.
func Init(cfg driven.ConfigStore) *InitResult {
	result := &InitResult{}

	embSvc, err := CreateAndValidateEmbeddingService(LoadEmbeddingSettings(cfg))
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else if embSvc == nil {
		result.Warnings = append(result.Warnings,
			"embedding provider not configured; contracts will be stored without an index")
	}
	result.EmbeddingService = embSvc

	llmSvc, err := CreateAndValidateLLMService(LoadLLMSettings(cfg))
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else if llmSvc == nil {
		result.Warnings = append(result.Warnings,
			"LLM provider not configured; analysis will be rule-based only")
	}
	result.LLMService = llmSvc

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section of 'contralens config'",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [embedding] section of 'contralens config'",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [llm] section of 'contralens config'",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [llm] section of 'contralens config'",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for 'contralens doctor' to validate credentials without starting the app.
func ValidateEmbeddingConfig(settings *EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for 'contralens doctor' to validate credentials without starting the app.
func ValidateLLMConfig(settings *LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case ProviderOllama:
		return createOllamaEmbedding(settings), nil

	case ProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Hosted providers are wrapped with a client-side rate limiter; Ollama
// runs locally and is not throttled.
func CreateLLMService(settings *LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case ProviderOllama:
		return createOllamaLLM(settings), nil

	case ProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return ratelimit.Wrap(svc, settings.RequestsPerMinute), nil

	case ProviderAnthropic:
		svc, err := anthropicllm.NewLLMService(anthropicllm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return ratelimit.Wrap(svc, settings.RequestsPerMinute), nil

	case ProviderGemini:
		svc, err := geminillm.NewLLMService(geminillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return ratelimit.Wrap(svc, settings.RequestsPerMinute), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
