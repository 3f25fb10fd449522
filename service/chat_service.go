package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"vozdalei-backend/llm"
	"vozdalei-backend/models"
	"vozdalei-backend/repository"
	"vozdalei-backend/sources"
	"vozdalei-backend/textproc"
)

// Searcher supplies legislative grounding for chat answers.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []models.LegislativeDocument
}

// ChatService answers citizen questions about Brazilian legislation. The
// server is stateless: the caller resends the conversation history with
// every request.
type ChatService struct {
	provider  llm.Provider
	search    Searcher
	audio     *AudioService
	queryRepo *repository.QueryRepository
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithProvider sets the language model provider
func ChatWithProvider(p llm.Provider) ChatServiceOption {
	return func(s *ChatService) {
		s.provider = p
	}
}

// ChatWithSearch sets the legislation search used for grounding
func ChatWithSearch(search Searcher) ChatServiceOption {
	return func(s *ChatService) {
		s.search = search
	}
}

// ChatWithAudioService sets the audio service used for spoken replies
func ChatWithAudioService(audio *AudioService) ChatServiceOption {
	return func(s *ChatService) {
		s.audio = audio
	}
}

// ChatWithQueryRepository sets the repository that records queries
func ChatWithQueryRepository(repo *repository.QueryRepository) ChatServiceOption {
	return func(s *ChatService) {
		s.queryRepo = repo
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrEmptyMessage = errors.New("chat message is empty")

const chatSystemPrompt = "Você é um assistente especializado em legislação brasileira. " +
	"Sua função é ajudar cidadãos a entenderem leis, projetos de lei, emendas constitucionais " +
	"e outros documentos legislativos de forma clara e acessível. " +
	"Sempre responda de forma educada, clara e objetiva. Se não souber algo, seja honesto. " +
	"Quando possível, forneça exemplos práticos para facilitar o entendimento."

const (
	chatUnavailableMessage = "Desculpe, o serviço de chat não está disponível no momento. " +
		"Por favor, tente novamente mais tarde."
	chatErrorMessage = "Desculpe, ocorreu um erro ao processar sua mensagem. " +
		"Por favor, tente novamente mais tarde."
)

// MaxSuggestions bounds how many follow-up questions a reply carries.
const MaxSuggestions = 6

// lookupKeywords triggers a legislation search when one of them appears
// in the user message. Mentioning a law number always triggers a search.
var lookupKeywords = []string{
	"lei", "leis", "projeto", "projetos", "pec", "pl ", "plp",
	"emenda", "legislação", "legislacao", "câmara", "camara",
	"senado", "congresso", "decreto", "medida provisória", "medida provisoria",
	"constituição", "constituicao", "votação", "votacao", "tramitação", "tramitacao",
}

var defaultSuggestions = []string{
	"O que é um projeto de lei?",
	"Como funciona a tramitação de uma PEC?",
	"Quais são os projetos em votação hoje?",
	"Como posso acompanhar um projeto específico?",
	"O que significa emenda constitucional?",
	"Quais são as leis mais importantes aprovadas este ano?",
}

// ChatRequest represents one chat turn from the user
type ChatRequest struct {
	Message  string
	History  []models.ChatTurn
	UseAudio bool
	UserID   *uuid.UUID // Optional, links the recorded query to a user
}

// ChatResult represents the composed chat answer
type ChatResult struct {
	Reply *models.ChatReply
}

// Chat answers one user message. Provider outages and search failures
// degrade the answer instead of erroring: the reply always carries a
// message and up to MaxSuggestions follow-up questions.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	reply := &models.ChatReply{
		Sources:     []models.LegislativeDocument{},
		Suggestions: Suggestions(),
	}

	if s.provider == nil {
		reply.Message = chatUnavailableMessage
		return &ChatResult{Reply: reply}, nil
	}

	grounding := ""
	if s.search != nil && wantsLegislation(req.Message) {
		// One search serves both the prompt block and the cited
		// sources, so each source is hit once per message.
		docs := s.search.Search(ctx, req.Message, 10)
		grounding = sources.ContextFromResults(req.Message, docs, 5)
		if len(docs) > 3 {
			docs = docs[:3]
		}
		if docs != nil {
			reply.Sources = docs
		}
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System:   chatSystemPrompt,
		Messages: buildMessages(req, grounding),
	})
	if err != nil {
		log.Printf("Warning: chat model call failed: %v", err)
		reply.Message = chatErrorMessage
		return &ChatResult{Reply: reply}, nil
	}
	reply.Message = strings.TrimSpace(resp.Text)

	if req.UseAudio && s.audio != nil {
		synth, err := s.audio.Synthesize(ctx, SynthesizeRequest{Text: reply.Message})
		if err != nil {
			log.Printf("Warning: failed to synthesize chat reply: %v", err)
		} else {
			reply.AudioURL = &synth.URL
		}
	}

	s.recordQuery(ctx, req, reply)

	return &ChatResult{Reply: reply}, nil
}

// Suggestions returns the starter questions shown to users.
func Suggestions() []string {
	out := make([]string, 0, MaxSuggestions)
	out = append(out, defaultSuggestions...)
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// wantsLegislation decides whether a message needs grounding in real
// legislative data before the model answers it.
func wantsLegislation(message string) bool {
	if textproc.ExtractLawNumber(message) != "" {
		return true
	}
	lower := strings.ToLower(message)
	for _, kw := range lookupKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// buildMessages assembles the model conversation: prior turns with valid
// roles, the optional grounding block, then the current message.
func buildMessages(req ChatRequest, grounding string) []llm.Message {
	messages := make([]llm.Message, 0, len(req.History)+2)
	for _, turn := range req.History {
		if !turn.Role.Valid() || turn.Role == models.RoleSystem {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	if grounding != "" {
		messages = append(messages, llm.Message{
			Role: "user",
			Content: "Contexto de legislação encontrado para a próxima pergunta. " +
				"Use-o como base da resposta quando for relevante:\n\n" + grounding,
		})
	}

	messages = append(messages, llm.Message{Role: "user", Content: req.Message})
	return messages
}

// recordQuery persists the exchange for the usage history. Failures are
// logged, never surfaced.
func (s *ChatService) recordQuery(ctx context.Context, req ChatRequest, reply *models.ChatReply) {
	if s.queryRepo == nil {
		return
	}

	query := &models.Query{
		UserID:    req.UserID,
		QueryText: req.Message,
		QueryType: models.QueryTypeText,
		Response:  reply.Message,
		AudioURL:  reply.AudioURL,
	}
	if req.UseAudio {
		query.QueryType = models.QueryTypeAudio
	}
	if err := s.queryRepo.Create(ctx, query); err != nil {
		log.Printf("Warning: failed to record chat query: %v", err)
	}
}
