package driven

import "context"

// LLMService provides generative operations for chat, risk critique and
// summarisation. This is an optional service - when nil, every consumer
// degrades to deterministic output.
//
// Implementations may include:
//   - Gemini (gemini-1.5-pro, JSON response mode)
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Local inference servers with compatible APIs
type LLMService interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// JSONMode asks the model to return a single JSON object.
	// Consumers still validate the payload; JSONMode is a hint, not a
	// guarantee.
	JSONMode bool
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}
