package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vozdalei-backend/llm"
	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

// SimplificationService rewrites legislative text at a chosen reading
// level. When no language model is reachable the original text passes
// through unchanged so callers always get a usable result.
type SimplificationService struct {
	provider llm.Provider
}

// SimplificationServiceOption is a functional option for SimplificationService
type SimplificationServiceOption func(*SimplificationService)

// SimplifyWithProvider sets the language model provider
func SimplifyWithProvider(p llm.Provider) SimplificationServiceOption {
	return func(s *SimplificationService) {
		s.provider = p
	}
}

// NewSimplificationService creates a new simplification service
func NewSimplificationService(opts ...SimplificationServiceOption) *SimplificationService {
	s := &SimplificationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrEmptyText     = errors.New("text to simplify is empty")
	ErrInvalidLevel  = errors.New("invalid simplification level")
	ErrBatchTooLarge = errors.New("batch exceeds the maximum number of texts")
)

// MaxBatchSize bounds how many texts one batch request may carry.
const MaxBatchSize = 10

// levelInstructions maps each target level to the instruction given to
// the model. All output stays in Portuguese.
var levelInstructions = map[models.SimplificationLevel]string{
	models.LevelSimple: "Reescreva em linguagem muito simples, como se explicasse para alguém sem " +
		"conhecimento jurídico. Use frases curtas, palavras do dia a dia e exemplos práticos quando ajudarem.",
	models.LevelModerate: "Reescreva em linguagem clara e acessível, mantendo os termos jurídicos " +
		"essenciais mas explicando cada um deles na primeira vez que aparecerem.",
	models.LevelTechnical: "Reorganize o texto mantendo a precisão técnica e o vocabulário jurídico, " +
		"melhorando apenas a clareza e a estrutura das frases.",
}

const simplifySystemPrompt = "Você é um especialista em tornar textos legislativos brasileiros " +
	"acessíveis aos cidadãos. Mantenha sempre o significado original do texto. Responda apenas com " +
	"o texto reescrito, sem comentários adicionais."

// SimplifyRequest represents a request to simplify one text
type SimplifyRequest struct {
	Text        string
	TargetLevel models.SimplificationLevel
	Document    *models.LegislativeDocument // Optional, enriches key points
}

// SimplifyResult represents the result of a simplification
type SimplifyResult struct {
	Simplification *models.SimplificationResult
}

// Simplify rewrites one text at the requested level. Model outages
// degrade to the original text instead of failing.
func (s *SimplificationService) Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	if !req.TargetLevel.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, req.TargetLevel)
	}

	// Provider payloads carry markup and stray whitespace; clean first.
	text := textproc.NormalizeText(req.Text)
	simplified := s.rewrite(ctx, text, req.TargetLevel)

	result := &models.SimplificationResult{
		OriginalText:       text,
		SimplifiedText:     simplified,
		TargetLevel:        req.TargetLevel,
		ReadingTimeMinutes: textproc.ReadingTime(simplified),
		KeyPoints:          textproc.ExtractKeyPoints(simplified, req.Document),
		Citations:          textproc.ExtractCitations(text),
	}
	return &SimplifyResult{Simplification: result}, nil
}

// SimplifyBatchRequest represents a request to simplify several texts
type SimplifyBatchRequest struct {
	Texts       []string
	TargetLevel models.SimplificationLevel
}

// SimplifyBatchResult represents the result of a batch simplification
type SimplifyBatchResult struct {
	Simplifications []*models.SimplificationResult
}

// SimplifyBatch rewrites up to MaxBatchSize texts at the same level.
// Empty texts inside the batch are skipped rather than failing the batch.
func (s *SimplificationService) SimplifyBatch(ctx context.Context, req SimplifyBatchRequest) (*SimplifyBatchResult, error) {
	if len(req.Texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d texts, maximum is %d", ErrBatchTooLarge, len(req.Texts), MaxBatchSize)
	}
	if !req.TargetLevel.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, req.TargetLevel)
	}

	results := make([]*models.SimplificationResult, 0, len(req.Texts))
	for _, text := range req.Texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		res, err := s.Simplify(ctx, SimplifyRequest{Text: text, TargetLevel: req.TargetLevel})
		if err != nil {
			return nil, err
		}
		results = append(results, res.Simplification)
	}
	return &SimplifyBatchResult{Simplifications: results}, nil
}

// rewrite asks the model for a simplified version, falling back to the
// original text when no provider is configured or the call fails.
func (s *SimplificationService) rewrite(ctx context.Context, text string, level models.SimplificationLevel) string {
	if s.provider == nil {
		return text
	}

	prompt := fmt.Sprintf("%s\n\nTexto original:\n%s\n\nTexto reescrito:", levelInstructions[level], text)
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System: simplifySystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		log.Printf("Warning: simplification model call failed, returning original text: %v", err)
		return text
	}

	simplified := strings.TrimSpace(resp.Text)
	if simplified == "" {
		return text
	}
	if level == models.LevelTechnical && overCompressed(text, simplified) {
		log.Printf("Warning: technical simplification over-compressed the text, returning original")
		return text
	}
	return simplified
}

// overCompressed reports whether a technical rewrite lost too much of
// the input. A technical-level result must keep the substance, so a
// completion shorter than a quarter of the original is rejected. Short
// inputs are exempt since a one-line text can shrink legitimately.
func overCompressed(original, rewritten string) bool {
	if len(original) < 200 {
		return false
	}
	return len(rewritten)*4 < len(original)
}
