// Package ratelimit decorates an LLM service with client-side rate
// limiting. Hosted model APIs throttle aggressively; a local token
// bucket keeps batch analysis (watch mode, re-analysis of many
// contracts) under the provider's quota instead of burning retries.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultRequestsPerMinute is a conservative default that fits the free
// tiers of the supported providers.
const DefaultRequestsPerMinute = 15

// LLMService wraps another LLM service and blocks until the limiter
// admits each generative call. Ping and ModelName pass through untouched.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// Wrap decorates the given service with a token bucket of
// requestsPerMinute. Values below 1 fall back to the default.
func Wrap(inner driven.LLMService, requestsPerMinute int) *LLMService {
	if requestsPerMinute < 1 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &LLMService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Generate waits for the limiter, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// Chat waits for the limiter, then delegates.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Chat(ctx, messages, opts)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming limiter tokens; health checks must
// not starve real requests.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
