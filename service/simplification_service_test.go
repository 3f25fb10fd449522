package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vozdalei-backend/llm"
	"vozdalei-backend/models"
)

type stubProvider struct {
	text  string
	err   error
	calls int
	last  llm.CompletionRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.text, Model: "stub"}, nil
}

const legalText = "Fica instituído o programa nacional de acesso à educação digital nas escolas públicas. " +
	"O poder executivo regulamentará esta lei no prazo de noventa dias contados da sua publicação."

func TestSimplifyRejectsEmptyText(t *testing.T) {
	s := NewSimplificationService()
	_, err := s.Simplify(context.Background(), SimplifyRequest{Text: "   ", TargetLevel: models.LevelSimple})
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestSimplifyRejectsInvalidLevel(t *testing.T) {
	s := NewSimplificationService()
	_, err := s.Simplify(context.Background(), SimplifyRequest{Text: legalText, TargetLevel: "easy"})
	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestSimplifyWithoutProviderReturnsOriginal(t *testing.T) {
	s := NewSimplificationService()
	res, err := s.Simplify(context.Background(), SimplifyRequest{Text: legalText, TargetLevel: models.LevelSimple})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Simplification.SimplifiedText != legalText {
		t.Error("expected original text passed through when no provider is configured")
	}
	if res.Simplification.ReadingTimeMinutes < 0.1 {
		t.Errorf("expected reading time >= 0.1, got %v", res.Simplification.ReadingTimeMinutes)
	}
	if len(res.Simplification.KeyPoints) == 0 {
		t.Error("expected at least one key point")
	}
}

func TestSimplifyProviderErrorDegradesToOriginal(t *testing.T) {
	p := &stubProvider{err: errors.New("rate limited")}
	s := NewSimplificationService(SimplifyWithProvider(p))

	res, err := s.Simplify(context.Background(), SimplifyRequest{Text: legalText, TargetLevel: models.LevelModerate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Simplification.SimplifiedText != legalText {
		t.Error("expected original text on provider failure")
	}
}

func TestSimplifyUsesProviderOutput(t *testing.T) {
	simplified := "O governo criou um programa para levar internet e computadores às escolas públicas."
	p := &stubProvider{text: simplified}
	s := NewSimplificationService(SimplifyWithProvider(p))

	res, err := s.Simplify(context.Background(), SimplifyRequest{Text: legalText, TargetLevel: models.LevelSimple})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Simplification.SimplifiedText != simplified {
		t.Errorf("unexpected simplified text %q", res.Simplification.SimplifiedText)
	}
	if res.Simplification.OriginalText != legalText {
		t.Error("expected original text preserved")
	}
	if res.Simplification.TargetLevel != models.LevelSimple {
		t.Errorf("unexpected level %q", res.Simplification.TargetLevel)
	}
	if !strings.Contains(p.last.Messages[len(p.last.Messages)-1].Content, legalText) {
		t.Error("expected original text inside the prompt")
	}
}

func TestSimplifyTechnicalKeepsLengthRatio(t *testing.T) {
	longText := strings.Repeat(legalText+" ", 4)
	rewritten := "Institui-se o programa nacional de acesso à educação digital na rede pública de ensino. " +
		"Cabe ao poder executivo editar o regulamento desta lei em até noventa dias a partir da publicação, " +
		"observadas as diretrizes orçamentárias vigentes e a disponibilidade de infraestrutura nas escolas."
	p := &stubProvider{text: rewritten}
	s := NewSimplificationService(SimplifyWithProvider(p))

	res, err := s.Simplify(context.Background(), SimplifyRequest{Text: longText, TargetLevel: models.LevelTechnical})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := res.Simplification.SimplifiedText
	if out != rewritten {
		t.Errorf("unexpected simplified text %q", out)
	}
	if len(out)*4 < len(res.Simplification.OriginalText) {
		t.Errorf("technical output too short: %d chars for %d input chars", len(out), len(res.Simplification.OriginalText))
	}
}

func TestSimplifyTechnicalRejectsOverCompression(t *testing.T) {
	longText := strings.Repeat(legalText+" ", 4)
	p := &stubProvider{text: "Cria um programa de educação digital."}
	s := NewSimplificationService(SimplifyWithProvider(p))

	res, err := s.Simplify(context.Background(), SimplifyRequest{Text: longText, TargetLevel: models.LevelTechnical})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Simplification.SimplifiedText != res.Simplification.OriginalText {
		t.Errorf("expected the original text back, got %q", res.Simplification.SimplifiedText)
	}
}

func TestSimplifyBatchCapsSize(t *testing.T) {
	s := NewSimplificationService()
	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = legalText
	}
	_, err := s.SimplifyBatch(context.Background(), SimplifyBatchRequest{Texts: texts, TargetLevel: models.LevelSimple})
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestSimplifyBatchSkipsEmptyTexts(t *testing.T) {
	s := NewSimplificationService()
	res, err := s.SimplifyBatch(context.Background(), SimplifyBatchRequest{
		Texts:       []string{legalText, "", "  "},
		TargetLevel: models.LevelTechnical,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Simplifications) != 1 {
		t.Errorf("expected 1 simplification, got %d", len(res.Simplifications))
	}
}

func TestSimplifyNormalizesAndExtractsCitations(t *testing.T) {
	s := NewSimplificationService()
	res, err := s.Simplify(context.Background(), SimplifyRequest{
		Text:        "<p>O  Art. 5º  e o § 2º   desta lei entram em vigor imediatamente.</p>",
		TargetLevel: models.LevelModerate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(res.Simplification.OriginalText, "<p>") {
		t.Errorf("markup not stripped: %q", res.Simplification.OriginalText)
	}
	if strings.Contains(res.Simplification.OriginalText, "  ") {
		t.Errorf("whitespace not collapsed: %q", res.Simplification.OriginalText)
	}

	var articles, paragraphs int
	for _, c := range res.Simplification.Citations {
		switch c.Type {
		case "article":
			articles++
		case "paragraph":
			paragraphs++
		}
	}
	if articles != 1 || paragraphs != 1 {
		t.Errorf("citations = %d articles, %d paragraphs, want 1 and 1", articles, paragraphs)
	}
}
