package services

import (
	"context"
	"sort"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
)

// --- Shared mock implementations ---

// mockEmbedder implements driven.EmbeddingService with canned vectors
// keyed by exact input text.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	dims     int
	embedErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 2
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockLLM implements driven.LLMService with a canned response.
type mockLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.GenerateOptions) (string, error) {
	m.calls++
	if len(messages) > 0 {
		m.lastPrompt = messages[len(messages)-1].Content
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return m.err }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore implements driven.PromptStore from a plain map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockContractStore implements driven.ContractStore in memory.
type mockContractStore struct {
	contracts map[string]domain.Contract
	reports   map[string]domain.RiskReport
	exchanges []domain.Exchange
	saveErr   error
}

func newMockContractStore() *mockContractStore {
	return &mockContractStore{
		contracts: make(map[string]domain.Contract),
		reports:   make(map[string]domain.RiskReport),
	}
}

func (m *mockContractStore) SaveContract(_ context.Context, contract *domain.Contract) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.contracts[contract.ID] = *contract
	return nil
}

func (m *mockContractStore) GetContract(_ context.Context, id string) (*domain.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *mockContractStore) ListContracts(_ context.Context) ([]domain.Contract, error) {
	out := make([]domain.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (m *mockContractStore) DeleteContract(_ context.Context, id string) error {
	if _, ok := m.contracts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.contracts, id)
	delete(m.reports, id)
	return nil
}

func (m *mockContractStore) SaveReport(_ context.Context, contractID string, report *domain.RiskReport) error {
	m.reports[contractID] = *report
	return nil
}

func (m *mockContractStore) GetReport(_ context.Context, contractID string) (*domain.RiskReport, error) {
	r, ok := m.reports[contractID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *mockContractStore) SaveExchange(_ context.Context, exchange *domain.Exchange) error {
	m.exchanges = append(m.exchanges, *exchange)
	return nil
}

func (m *mockContractStore) ListExchanges(_ context.Context, contractID string) ([]domain.Exchange, error) {
	var out []domain.Exchange
	for _, e := range m.exchanges {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockRetrieval implements driving.RetrievalService with canned hits.
type mockRetrieval struct {
	hits      []domain.SearchHit
	searchErr error
	indexErr  error
	indexed   map[string]bool
}

var _ driving.RetrievalService = (*mockRetrieval)(nil)

func newMockRetrieval() *mockRetrieval {
	return &mockRetrieval{indexed: make(map[string]bool)}
}

func (m *mockRetrieval) IndexContract(_ context.Context, contractID, _, _ string) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed[contractID] = true
	return nil
}

func (m *mockRetrieval) SearchContract(_ context.Context, _, _ string, topK int) ([]domain.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockRetrieval) SearchAll(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	return m.SearchContract(ctx, "", query, topK)
}

func (m *mockRetrieval) AssembleContext(_ context.Context, _, _ string, _ int) (string, error) {
	return "", nil
}

func (m *mockRetrieval) RemoveContract(_ context.Context, contractID string) bool {
	existed := m.indexed[contractID]
	delete(m.indexed, contractID)
	return existed
}

func (m *mockRetrieval) IsIndexed(contractID string) bool {
	return m.indexed[contractID]
}
