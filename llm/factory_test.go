package llm

import "testing"

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("expected no error for empty provider, got %v", err)
	}
	if provider != nil {
		t.Error("expected nil provider when none is configured")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "clippy"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderRequiresKey(t *testing.T) {
	for _, name := range []string{"openai", "groq", "gemini"} {
		if _, err := NewProvider(Config{Provider: name}); err == nil {
			t.Errorf("expected error creating %s provider without API key", name)
		}
	}
}

func TestNewGroqProviderDefaults(t *testing.T) {
	p, err := NewGroqProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "groq" {
		t.Errorf("expected provider name groq, got %s", p.Name())
	}
	if p.config.Model != defaultGroqModel {
		t.Errorf("expected default model %s, got %s", defaultGroqModel, p.config.Model)
	}
	if p.config.BaseURL != groqBaseURL {
		t.Errorf("expected Groq base URL, got %s", p.config.BaseURL)
	}
}
