package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// GeminiProvider implements Provider for Google's Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a provider backed by the Gemini API
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete generates a reply using the Gemini API, retrying transient
// failures with exponential backoff
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	modelName := p.config.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	model := p.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	model.SetTemperature(temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	// Prior turns go into chat history; the last user message is sent
	session := model.StartChat()
	var prompt string
	if n := len(req.Messages); n > 0 {
		prompt = req.Messages[n-1].Content
		for _, m := range req.Messages[:n-1] {
			role := "user"
			if m.Role == "assistant" {
				role = "model"
			}
			session.History = append(session.History, &genai.Content{
				Role:  role,
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		}
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := session.SendMessage(callCtx, genai.Text(prompt))
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		text := flattenCandidates(resp)
		if text == "" {
			lastErr = fmt.Errorf("empty response from Gemini")
			continue
		}

		result := &CompletionResponse{Text: text, Model: modelName}
		if resp.UsageMetadata != nil {
			result.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
		}
		return result, nil
	}

	return nil, fmt.Errorf("Gemini API error after %d attempts: %w", maxRetries, lastErr)
}

// waitBackoff sleeps for the given delay unless the context is
// cancelled first.
func waitBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func flattenCandidates(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(builder.String())
}
