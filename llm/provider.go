package llm

import (
	"context"
	"errors"
	"os"
	"strconv"
)

// ErrUnavailable is returned when no completion provider is configured or
// the configured provider cannot be reached. Callers must treat this as a
// degraded-not-fatal condition.
var ErrUnavailable = errors.New("completion provider unavailable")

// Message is a single turn fed to the completion capability
type Message struct {
	Role    string // user, assistant, system
	Content string
}

// CompletionRequest contains the input for a chat completion
type CompletionRequest struct {
	// System is the system instruction prepended to the conversation
	System string

	// Messages is the conversation, oldest first; the last entry is the
	// current user prompt
	Messages []Message

	// Temperature controls sampling; zero means the provider default
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// CompletionResponse contains the provider's output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Provider defines the interface for text-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a reply for the given conversation
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Config holds completion provider configuration
type Config struct {
	// Provider name: "openai", "groq", "gemini", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (Groq)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 1024,
	}
}

// ConfigFromEnv builds a provider config from environment variables, using
// the same priority the service has always had: Groq (free tier) first,
// then Gemini, then OpenAI. No key set leaves the provider disabled.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if t := os.Getenv("LLM_TIMEOUT_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			cfg.Timeout = secs
		}
	}
	cfg.Model = os.Getenv("LLM_MODEL")

	switch {
	case os.Getenv("GROQ_API_KEY") != "":
		cfg.Provider = "groq"
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = "openai"
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}
