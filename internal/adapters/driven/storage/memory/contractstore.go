package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure ContractStore implements the interface.
var _ driven.ContractStore = (*ContractStore)(nil)

// ContractStore is an in-memory implementation of driven.ContractStore.
// Nothing survives process exit; it exists for tests and --no-persist runs.
type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]domain.Contract
	reports   map[string]domain.RiskReport
	exchanges []domain.Exchange
}

// NewContractStore creates a new in-memory contract store.
func NewContractStore() *ContractStore {
	return &ContractStore{
		contracts: make(map[string]domain.Contract),
		reports:   make(map[string]domain.RiskReport),
	}
}

// SaveContract stores or updates a contract.
func (s *ContractStore) SaveContract(_ context.Context, contract *domain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[contract.ID] = *contract
	return nil
}

// GetContract retrieves a contract by ID.
func (s *ContractStore) GetContract(_ context.Context, id string) (*domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &contract, nil
}

// ListContracts returns all contracts, newest first.
func (s *ContractStore) ListContracts(_ context.Context) ([]domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contracts := make([]domain.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(a, b int) bool {
		return contracts[a].CreatedAt.After(contracts[b].CreatedAt)
	})
	return contracts, nil
}

// DeleteContract removes a contract, its report and its chat history.
func (s *ContractStore) DeleteContract(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.contracts, id)
	delete(s.reports, id)

	kept := s.exchanges[:0]
	for _, e := range s.exchanges {
		if e.ContractID != id {
			kept = append(kept, e)
		}
	}
	s.exchanges = kept
	return nil
}

// SaveReport stores the latest risk report, replacing any previous one.
func (s *ContractStore) SaveReport(_ context.Context, contractID string, report *domain.RiskReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[contractID] = *report
	return nil
}

// GetReport retrieves the latest risk report for a contract.
func (s *ContractStore) GetReport(_ context.Context, contractID string) (*domain.RiskReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[contractID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &report, nil
}

// SaveExchange appends a question/answer pair to the chat history.
func (s *ContractStore) SaveExchange(_ context.Context, exchange *domain.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, *exchange)
	return nil
}

// ListExchanges returns the chat history for a contract, oldest first.
func (s *ContractStore) ListExchanges(_ context.Context, contractID string) ([]domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Exchange
	for _, e := range s.exchanges {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].AskedAt.Before(out[b].AskedAt)
	})
	return out, nil
}
