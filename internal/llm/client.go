// Package llm abstracts the upstream chat providers the relay can be
// pointed at. One provider is selected by configuration at startup; the
// rest of the system only sees the Client interface.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the provider signals quota exhaustion.
var ErrRateLimited = errors.New("upstream provider rate limited")

// CompletionRequest is a single-turn completion request.
type CompletionRequest struct {
	System    string
	Message   string
	MaxTokens int
}

// CompletionResponse carries the provider's reply text.
type CompletionResponse struct {
	Content string
	Model   string
}

// Client is the interface every upstream provider implements.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// Config selects and configures a provider.
type Config struct {
	Provider        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	Model           string
}

// NewClient builds the provider named by cfg.Provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model)
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model)
	case "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
