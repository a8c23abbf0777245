package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Retrieval depth for questions: scoped questions search one contract,
// global questions spread the same budget across all of them.
const (
	chatTopKScoped = 6
	chatTopKGlobal = 8
)

// snippetMaxChars caps quoted citation snippets.
const snippetMaxChars = 260

// fallbackSources is how many raw excerpts back a degraded answer.
const fallbackSources = 3

// defaultChatPrompt instructs the model to answer strictly from the
// provided chunks and return the JSON answer shape.
const defaultChatPrompt = `You are an AI contract analyst. Answer the user's question STRICTLY from the provided CHUNKS. ` +
	`If the answer is not present in the chunks, say you cannot find it in the contract text. ` +
	`Return ONLY JSON with keys: answer (string), citations (list of {chunk_id, page, text}), confidence (0..1). ` +
	`Citations should quote only the minimum necessary snippet supporting the answer.`

// chatResponse is the wire shape the chat prompt asks the model for.
type chatResponse struct {
	Answer    string `json:"answer"`
	Citations []struct {
		ChunkID string `json:"chunk_id"`
		Page    int    `json:"page"`
		Text    string `json:"text"`
	} `json:"citations"`
	Confidence float64 `json:"confidence"`
}

// ChatService answers natural-language questions grounded in retrieved
// contract chunks.
//
// Generation failures degrade, never propagate: the caller always gets an
// Answer, in the worst case built from the raw top excerpts with
// confidence 0.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	store     driven.ContractStore
	prompts   driven.PromptStore
}

// NewChatService creates a chat service.
// The llm is optional (can be nil); the store is optional and, when set,
// receives every exchange for history.
func NewChatService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	store driven.ContractStore,
	prompts driven.PromptStore,
) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
		store:     store,
		prompts:   prompts,
	}
}

// Ask answers a question. A non-empty contractID scopes retrieval to that
// contract; an empty one searches across all indexed contracts.
func (s *ChatService) Ask(ctx context.Context, question, contractID string) (*domain.Answer, error) {
	logger.Section("Chat")
	logger.Debug("Question: %q, contract: %q", question, contractID)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	if s.llm == nil {
		return &domain.Answer{
			Answer:     "Chat is not configured: no generative backend is available.",
			Sources:    []domain.Citation{},
			Confidence: 0,
		}, nil
	}

	hits, err := s.retrieve(ctx, question, contractID)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		logger.Debug("No relevant chunks retrieved")
		return &domain.Answer{
			Answer:     "I couldn't find relevant context to answer from the contract(s).",
			Sources:    []domain.Citation{},
			Confidence: 0,
		}, nil
	}

	answer := s.generate(ctx, question, hits)
	s.persist(ctx, question, contractID, answer)
	return answer, nil
}

// retrieve fetches the grounding chunks. Embedding unavailability is
// treated as "nothing retrievable", not an error.
func (s *ChatService) retrieve(ctx context.Context, question, contractID string) ([]domain.SearchHit, error) {
	var (
		hits []domain.SearchHit
		err  error
	)
	if contractID != "" {
		hits, err = s.retrieval.SearchContract(ctx, contractID, question, chatTopKScoped)
	} else {
		hits, err = s.retrieval.SearchAll(ctx, question, chatTopKGlobal)
	}
	if err != nil {
		if isRecoverableRetrievalError(err) {
			logger.Warn("Retrieval degraded: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	return hits, nil
}

// generate asks the model for a grounded answer and falls back to the
// top raw excerpts when the call or the payload fails.
func (s *ChatService) generate(ctx context.Context, question string, hits []domain.SearchHit) *domain.Answer {
	payload, err := json.Marshal(map[string]any{
		"question": question,
		"chunks":   chunkPayload(hits),
	})
	if err != nil {
		logger.Warn("Marshal chat payload: %v", err)
		return fallbackAnswer(hits)
	}

	prompt := s.loadPrompt(driven.PromptChatSystem, defaultChatPrompt)

	response, err := s.llm.Generate(ctx, prompt+"\n\n"+string(payload), driven.GenerateOptions{
		JSONMode:    true,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Chat generation failed: %v", err)
		return fallbackAnswer(hits)
	}

	var parsed chatResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		logger.Warn("Chat response malformed: %v", err)
		return fallbackAnswer(hits)
	}

	answer := strings.TrimSpace(parsed.Answer)
	if answer == "" {
		answer = "I couldn't find that in the provided context."
	}

	citations := make([]domain.Citation, 0, len(parsed.Citations))
	for _, c := range parsed.Citations {
		if c.ChunkID == "" {
			continue
		}
		citations = append(citations, domain.Citation{
			ChunkID: c.ChunkID,
			Page:    c.Page,
			Snippet: capSnippet(c.Text),
		})
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &domain.Answer{
		Answer:     answer,
		Sources:    citations,
		Confidence: confidence,
	}
}

// persist saves the exchange when a store is configured. Persistence
// failures are logged, never surfaced.
func (s *ChatService) persist(ctx context.Context, question, contractID string, answer *domain.Answer) {
	if s.store == nil {
		return
	}
	exchange := &domain.Exchange{
		ID:         uuid.New().String(),
		ContractID: contractID,
		Question:   question,
		Answer:     *answer,
		AskedAt:    time.Now(),
	}
	if err := s.store.SaveExchange(ctx, exchange); err != nil {
		logger.Warn("Persist exchange: %v", err)
	}
}

// loadPrompt fetches a prompt from the store, falling back to the
// built-in default.
func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// fallbackAnswer builds a degraded answer from the top retrieved excerpts
// with zero confidence.
func fallbackAnswer(hits []domain.SearchHit) *domain.Answer {
	n := fallbackSources
	if n > len(hits) {
		n = len(hits)
	}

	sources := make([]domain.Citation, n)
	for i := 0; i < n; i++ {
		sources[i] = domain.Citation{
			ChunkID: hits[i].ChunkID,
			Page:    hits[i].Page,
			Snippet: capSnippet(hits[i].Text),
		}
	}

	return &domain.Answer{
		Answer:     "I had trouble generating an answer from the context. Here are the most relevant excerpts.",
		Sources:    sources,
		Confidence: 0,
	}
}

// chunkPayload projects hits into the prompt's chunk shape.
func chunkPayload(hits []domain.SearchHit) []map[string]any {
	chunks := make([]map[string]any, len(hits))
	for i, h := range hits {
		chunks[i] = map[string]any{
			"chunk_id": h.ChunkID,
			"page":     h.Page,
			"text":     h.Text,
		}
	}
	return chunks
}

// capSnippet flattens and truncates quoted text for citations. The cap
// counts runes, so multi-byte text is never split mid-character.
func capSnippet(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	runes := []rune(s)
	if len(runes) <= snippetMaxChars {
		return s
	}
	return string(runes[:snippetMaxChars-1]) + "…"
}

// isRecoverableRetrievalError reports whether retrieval failed in a way
// chat should degrade over rather than propagate.
func isRecoverableRetrievalError(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingUnavailable)
}
