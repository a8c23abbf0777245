package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/contralens/internal/chunker"
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// Heuristic field detectors. Like the rule checklist these are compiled
// once at package load, so the heuristic layer can only hit or miss and
// never fails at match time.
var (
	reMoney        = regexp.MustCompile(`(?:USD|QAR|SAR|AED|EUR|GBP|\$|€|£|ر\.ق)\s?\d{1,3}(?:,\d{3})*(?:\.\d+)?`)
	reGoverningLaw = regexp.MustCompile(`(?is)governing\s+law[:\-]?\s*(.+?)(?:\.|\n)`)
	rePartiesBlock = regexp.MustCompile(`(?is)(?:this\s+agreement\s+is\s+made\s+by\s+and\s+between|this\s+agreement\s+is\s+between)(.+?)(?:\.\s|now,?\s+therefore|whereas)`)
)

const (
	// maxAmountMentions caps detected monetary amounts per contract.
	maxAmountMentions = 25

	// partiesBlockMaxRunes caps the quoted parties preamble.
	partiesBlockMaxRunes = 500
)

// defaultExtractionPrompt asks for the structured extraction shape.
const defaultExtractionPrompt = `You are an AI contract analyst. Extract key fields from the provided contract CHUNKS. ` +
	`Return ONLY JSON with keys: parties (string naming all parties), term (string), purpose (string), ` +
	`scope (string), governing_law (string), amounts (list of strings), obligations (list of strings). ` +
	`Use only the provided text; leave a field empty when it is not present.`

// extractionResponse is the wire shape the extraction prompt asks for.
type extractionResponse struct {
	Parties      string   `json:"parties"`
	Term         string   `json:"term"`
	Purpose      string   `json:"purpose"`
	Scope        string   `json:"scope"`
	GoverningLaw string   `json:"governing_law"`
	Amounts      []string `json:"amounts"`
	Obligations  []string `json:"obligations"`
}

// ExtractionService pulls structured fields out of contract text for the
// risk and summary pipelines.
//
// Two layers: regex heuristics that always run, and an optional model
// pass. Model values win per field and heuristics backfill what the
// model missed, so a generative failure only loses the model layer.
type ExtractionService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewExtractionService creates an extraction service. The llm is optional.
func NewExtractionService(llm driven.LLMService, prompts driven.PromptStore) *ExtractionService {
	return &ExtractionService{llm: llm, prompts: prompts}
}

// Extract returns the extracted fields for the contract.
func (s *ExtractionService) Extract(ctx context.Context, contract *domain.Contract) map[string]any {
	if contract == nil {
		return map[string]any{}
	}

	logger.Section("Extraction")
	logger.Debug("Contract: %s, model: %t", contract.ID, s.llm != nil)

	heuristic := heuristicExtraction(contract.Text)
	if s.llm == nil {
		return heuristic
	}

	model, err := s.requestExtraction(ctx, contract)
	if err != nil {
		logger.Warn("Model extraction failed, heuristics only: %v", err)
		return heuristic
	}
	return mergeExtraction(model, heuristic)
}

// requestExtraction builds the JSON payload, calls the model and parses
// the response.
func (s *ExtractionService) requestExtraction(ctx context.Context, contract *domain.Contract) (*extractionResponse, error) {
	// Same wide windows as the risk critique; extraction needs
	// clause-level context, not embedding-sized slices.
	wide := chunker.New(chunker.WithWindow(critiqueWindow), chunker.WithOverlap(critiqueOverlap))
	chunks := wide.Chunk(contract.Text)
	if len(chunks) > critiqueMaxChunks {
		chunks = chunks[:critiqueMaxChunks]
	}

	payload, err := json.Marshal(map[string]any{
		"doc_id":   contract.ID,
		"language": contract.Language,
		"chunks":   chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction payload: %w", err)
	}

	prompt := s.loadPrompt(driven.PromptExtractionSystem, defaultExtractionPrompt)

	response, err := s.llm.Generate(ctx, prompt+"\n\n"+string(payload), driven.GenerateOptions{
		JSONMode:    true,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerativeCallFailed, err)
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &parsed, nil
}

// loadPrompt fetches a prompt from the store, falling back to the
// built-in default.
func (s *ExtractionService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// heuristicExtraction runs the regex layer over the full text. Only
// found fields appear in the map.
func heuristicExtraction(text string) map[string]any {
	extracted := map[string]any{}

	if m := rePartiesBlock.FindStringSubmatch(text); m != nil {
		block := strings.Join(strings.Fields(m[1]), " ")
		if runes := []rune(block); len(runes) > partiesBlockMaxRunes {
			block = string(runes[:partiesBlockMaxRunes])
		}
		if block != "" {
			extracted["parties"] = block
		}
	}

	if m := reGoverningLaw.FindStringSubmatch(text); m != nil {
		if law := strings.TrimSpace(m[1]); law != "" {
			extracted["governing_law"] = law
		}
	}

	if amounts := findAmounts(text); len(amounts) > 0 {
		extracted["amounts"] = amounts
	}

	return extracted
}

// findAmounts collects distinct monetary mentions in document order.
func findAmounts(text string) []string {
	matches := reMoney.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	var amounts []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		amounts = append(amounts, m)
		if len(amounts) == maxAmountMentions {
			break
		}
	}
	return amounts
}

// mergeExtraction folds the heuristic layer under the model layer.
// Scalar fields take the model value when present; amounts are unioned
// and deduplicated.
func mergeExtraction(model *extractionResponse, heuristic map[string]any) map[string]any {
	extracted := map[string]any{}

	put := func(key, modelValue string) {
		if v := strings.TrimSpace(modelValue); v != "" {
			extracted[key] = v
			return
		}
		if v, ok := heuristic[key]; ok {
			extracted[key] = v
		}
	}
	put("parties", model.Parties)
	put("term", model.Term)
	put("purpose", model.Purpose)
	put("scope", model.Scope)
	put("governing_law", model.GoverningLaw)

	amounts := append([]string{}, model.Amounts...)
	if hs, ok := heuristic["amounts"].([]string); ok {
		amounts = append(amounts, hs...)
	}
	seen := make(map[string]bool, len(amounts))
	var merged []string
	for _, a := range amounts {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		merged = append(merged, a)
	}
	if len(merged) > 0 {
		extracted["amounts"] = merged
	}

	if len(model.Obligations) > 0 {
		extracted["obligations"] = model.Obligations
	}

	return extracted
}
