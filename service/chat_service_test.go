package service

import (
	"context"
	"errors"
	"testing"

	"vozdalei-backend/models"
)

type fakeSearcher struct {
	searchCalls int
	docs        []models.LegislativeDocument
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) []models.LegislativeDocument {
	f.searchCalls++
	return f.docs
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	s := NewChatService()
	_, err := s.Chat(context.Background(), ChatRequest{Message: " "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestChatWithoutProviderReturnsFallbackMessage(t *testing.T) {
	s := NewChatService()
	res, err := s.Chat(context.Background(), ChatRequest{Message: "O que é uma PEC?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply.Message != chatUnavailableMessage {
		t.Errorf("unexpected fallback message %q", res.Reply.Message)
	}
	if len(res.Reply.Suggestions) == 0 || len(res.Reply.Suggestions) > MaxSuggestions {
		t.Errorf("expected 1..%d suggestions, got %d", MaxSuggestions, len(res.Reply.Suggestions))
	}
}

func TestChatProviderErrorDegrades(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	s := NewChatService(ChatWithProvider(p))

	res, err := s.Chat(context.Background(), ChatRequest{Message: "Bom dia"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply.Message != chatErrorMessage {
		t.Errorf("unexpected degraded message %q", res.Reply.Message)
	}
}

func TestChatGroundsLegislationQuestions(t *testing.T) {
	p := &stubProvider{text: "A lei 14.133 rege as licitações públicas."}
	search := &fakeSearcher{
		docs: []models.LegislativeDocument{
			{Type: "LEI", Number: "14133", Year: 2021, Title: "Lei de licitações"},
		},
	}
	s := NewChatService(ChatWithProvider(p), ChatWithSearch(search))

	res, err := s.Chat(context.Background(), ChatRequest{Message: "Fale sobre a lei 14133"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.searchCalls != 1 {
		t.Errorf("expected exactly one search per grounded message, got %d", search.searchCalls)
	}
	if len(res.Reply.Sources) != 1 {
		t.Errorf("expected 1 source, got %d", len(res.Reply.Sources))
	}

	found := false
	for _, msg := range p.last.Messages {
		if msg.Role == "user" && msg.Content != "Fale sobre a lei 14133" {
			found = true
		}
	}
	if !found {
		t.Error("expected grounding context injected into the conversation")
	}
}

func TestChatCapsCitedSources(t *testing.T) {
	p := &stubProvider{text: "resposta"}
	var docs []models.LegislativeDocument
	for i := 0; i < 6; i++ {
		docs = append(docs, models.LegislativeDocument{Type: "LEI", Number: "14133", Title: "Lei de licitações"})
	}
	search := &fakeSearcher{docs: docs}
	s := NewChatService(ChatWithProvider(p), ChatWithSearch(search))

	res, err := s.Chat(context.Background(), ChatRequest{Message: "Qual lei rege licitações?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.searchCalls != 1 {
		t.Errorf("expected exactly one search, got %d", search.searchCalls)
	}
	if len(res.Reply.Sources) != 3 {
		t.Errorf("expected sources capped at 3, got %d", len(res.Reply.Sources))
	}
}

func TestChatSkipsSearchForSmallTalk(t *testing.T) {
	p := &stubProvider{text: "Olá! Como posso ajudar?"}
	search := &fakeSearcher{}
	s := NewChatService(ChatWithProvider(p), ChatWithSearch(search))

	if _, err := s.Chat(context.Background(), ChatRequest{Message: "Oi, tudo bem?"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.searchCalls != 0 {
		t.Errorf("expected no search for small talk, got %d", search.searchCalls)
	}
}

func TestChatForwardsHistory(t *testing.T) {
	p := &stubProvider{text: "resposta"}
	s := NewChatService(ChatWithProvider(p))

	history := []models.ChatTurn{
		{Role: models.RoleUser, Content: "primeira pergunta"},
		{Role: models.RoleAssistant, Content: "primeira resposta"},
		{Role: "robot", Content: "ignorado"},
	}
	if _, err := s.Chat(context.Background(), ChatRequest{Message: "segunda pergunta", History: history}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two valid history turns plus the current message.
	if len(p.last.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(p.last.Messages))
	}
	if p.last.Messages[0].Content != "primeira pergunta" || p.last.Messages[1].Role != "assistant" {
		t.Error("history not forwarded in order")
	}
	if p.last.Messages[2].Content != "segunda pergunta" {
		t.Error("current message must come last")
	}
}

func TestSuggestionsCapped(t *testing.T) {
	got := Suggestions()
	if len(got) == 0 || len(got) > MaxSuggestions {
		t.Errorf("expected 1..%d suggestions, got %d", MaxSuggestions, len(got))
	}
}

func TestWantsLegislation(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Fale sobre a lei 8080", true},
		{"Como funciona a tramitação de uma PEC?", true},
		{"O que o senado votou hoje?", true},
		{"Oi, tudo bem?", false},
		{"Qual a previsão do tempo?", false},
	}
	for _, tt := range tests {
		if got := wantsLegislation(tt.message); got != tt.want {
			t.Errorf("wantsLegislation(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
