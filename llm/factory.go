package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a completion provider based on configuration.
// An empty provider name returns (nil, nil): completion stays disabled and
// callers degrade to returning unmodified text.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "groq":
		return NewGroqProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown completion provider: %s (supported: openai, groq, gemini)", config.Provider)
	}
}
