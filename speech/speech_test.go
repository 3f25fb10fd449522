package speech

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.language != "pt" {
		t.Errorf("expected Portuguese language hint, got %q", c.language)
	}
	if c.voice != openai.VoiceNova {
		t.Errorf("unexpected default voice %q", c.voice)
	}
}

func TestNewClientOptions(t *testing.T) {
	c, err := NewClient("test-key", WithLanguage("en"), WithVoice(openai.VoiceAlloy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.language != "en" {
		t.Errorf("expected language en, got %q", c.language)
	}
	if c.voice != openai.VoiceAlloy {
		t.Errorf("expected voice alloy, got %q", c.voice)
	}
}
