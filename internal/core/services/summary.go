package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// summaryTextBudget caps how much contract text is sent to the model.
const summaryTextBudget = 24000

// defaultSummaryPrompt asks for the structured summary shape.
const defaultSummaryPrompt = `You are a contracts analyst. Summarise the provided contract text and extracted fields. ` +
	`Return ONLY JSON with keys: summary (1-2 paragraphs), purpose (string), scope (string), ` +
	`key_obligations (object mapping party name to a list of obligations), highlights (list of strings). ` +
	`Use only the provided material; do not invent terms.`

// SummaryService generates structured contract overviews.
//
// When no generative backend is configured, or the call fails, the
// summary is assembled deterministically from the extracted fields and
// the risk report, so callers always get something displayable.
type SummaryService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSummaryService creates a summary service. The llm is optional.
func NewSummaryService(llm driven.LLMService, prompts driven.PromptStore) *SummaryService {
	return &SummaryService{llm: llm, prompts: prompts}
}

// Summarise produces a structured summary for the contract.
func (s *SummaryService) Summarise(ctx context.Context, contract *domain.Contract, extracted map[string]any, report *domain.RiskReport) (*domain.Summary, error) {
	if contract == nil {
		return nil, fmt.Errorf("nil contract: %w", domain.ErrInvalidInput)
	}

	logger.Section("Summary")
	logger.Debug("Contract: %s, model: %t", contract.ID, s.llm != nil)

	if s.llm == nil {
		return deterministicSummary(contract, extracted, report), nil
	}

	summary, err := s.generate(ctx, contract, extracted)
	if err != nil {
		logger.Warn("Summary generation failed, using deterministic fallback: %v", err)
		return deterministicSummary(contract, extracted, report), nil
	}
	return summary, nil
}

// generate calls the model and parses the structured summary.
func (s *SummaryService) generate(ctx context.Context, contract *domain.Contract, extracted map[string]any) (*domain.Summary, error) {
	text := truncateBytes(contract.Text, summaryTextBudget)
	if extracted == nil {
		extracted = map[string]any{}
	}

	payload, err := json.Marshal(map[string]any{
		"title":     contract.Title,
		"language":  contract.Language,
		"extracted": extracted,
		"text":      text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal summary payload: %w", err)
	}

	prompt := s.loadPrompt(driven.PromptSummarySystem, defaultSummaryPrompt)

	response, err := s.llm.Generate(ctx, prompt+"\n\n"+string(payload), driven.GenerateOptions{
		JSONMode:    true,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerativeCallFailed, err)
	}

	var summary domain.Summary
	if err := json.Unmarshal([]byte(extractJSON(response)), &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if strings.TrimSpace(summary.Summary) == "" {
		return nil, fmt.Errorf("empty summary body")
	}

	if summary.KeyObligations == nil {
		summary.KeyObligations = map[string][]string{}
	}
	if summary.Highlights == nil {
		summary.Highlights = []string{}
	}
	return &summary, nil
}

// loadPrompt fetches a prompt from the store, falling back to the
// built-in default.
func (s *SummaryService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// deterministicSummary assembles a summary without a model, from the
// contract metadata, extracted fields and risk report.
func deterministicSummary(contract *domain.Contract, extracted map[string]any, report *domain.RiskReport) *domain.Summary {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s).", contract.Title, languageName(contract.Language))

	if parties := extractedString(extracted, "parties"); parties != "" {
		fmt.Fprintf(&b, " Parties: %s.", parties)
	}
	if term := extractedString(extracted, "term"); term != "" {
		fmt.Fprintf(&b, " Term: %s.", term)
	}
	if law := extractedString(extracted, "governing_law"); law != "" {
		fmt.Fprintf(&b, " Governing law: %s.", law)
	}
	if report != nil {
		fmt.Fprintf(&b, " Automated review found %d finding(s); overall risk %s (%d/100).",
			report.FindingCount(), report.Overall.Level, report.Overall.Score)
	}

	highlights := []string{}
	if report != nil {
		for _, f := range report.Risks {
			highlights = append(highlights, f.Title)
		}
		for _, m := range report.MissingClauses {
			highlights = append(highlights, "Missing clause: "+m.Clause)
		}
	}

	return &domain.Summary{
		Summary:        b.String(),
		Purpose:        extractedString(extracted, "purpose"),
		Scope:          extractedString(extracted, "scope"),
		KeyObligations: map[string][]string{},
		Highlights:     highlights,
	}
}

// truncateBytes cuts text to at most max bytes, backing up to the start
// of the current rune so the result stays valid UTF-8.
func truncateBytes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

// extractedString pulls a string field out of the untyped extracted map.
func extractedString(extracted map[string]any, key string) string {
	if extracted == nil {
		return ""
	}
	v, ok := extracted[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// languageName maps a language code to a display name.
func languageName(code string) string {
	switch code {
	case "ar":
		return "Arabic"
	case "en", "":
		return "English"
	default:
		return code
	}
}
