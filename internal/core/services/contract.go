package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
	"github.com/custodia-labs/contralens/internal/normalisers/legal"
)

// Ensure ContractService implements the interface.
var _ driving.ContractService = (*ContractService)(nil)

// ContractService manages the contract lifecycle. It normalises incoming
// text once, persists metadata through the store, and keeps the in-memory
// vector index in step with the stored text.
type ContractService struct {
	store      driven.ContractStore
	retrieval  driving.RetrievalService
	normaliser *legal.Normaliser
}

// NewContractService creates a contract lifecycle service.
func NewContractService(store driven.ContractStore, retrieval driving.RetrievalService) *ContractService {
	return &ContractService{
		store:      store,
		retrieval:  retrieval,
		normaliser: legal.New(),
	}
}

// Add ingests already-extracted contract text. The text is normalised
// before storage so that retrieval, risk analysis and display all see the
// same canonical form. When the embedding backend is unavailable the
// contract is persisted anyway with Indexed=false; Reindex picks it up
// once a backend is configured.
func (s *ContractService) Add(ctx context.Context, title, filename, language, text string) (*domain.Contract, error) {
	logger.Section("Ingest")
	logger.Debug("Title: %q, file: %q, language: %q, %d bytes", title, filename, language, len(text))

	normalised := s.normaliser.Normalise(text)
	if strings.TrimSpace(normalised) == "" {
		return nil, fmt.Errorf("contract %q: %w", title, domain.ErrEmptyText)
	}
	if title == "" {
		title = filename
	}
	if language != "en" && language != "ar" {
		language = "en"
	}

	now := time.Now()
	contract := &domain.Contract{
		ID:        uuid.New().String(),
		Title:     title,
		Filename:  filename,
		Language:  language,
		Text:      normalised,
		CreatedAt: now,
		UpdatedAt: now,
	}

	contract.Indexed = s.index(ctx, contract)

	if err := s.store.SaveContract(ctx, contract); err != nil {
		s.retrieval.RemoveContract(ctx, contract.ID)
		return nil, fmt.Errorf("save contract: %w", err)
	}

	logger.Info("Ingested %q as %s (indexed: %t)", title, contract.ID, contract.Indexed)
	return contract, nil
}

// Get retrieves a contract by ID. The Indexed flag comes from the live
// registry, not from storage; stores have no indexed column because
// indices never survive a restart.
func (s *ContractService) Get(ctx context.Context, id string) (*domain.Contract, error) {
	contract, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.Indexed = s.retrieval.IsIndexed(contract.ID)
	return contract, nil
}

// List returns all contracts, newest first, with the Indexed flag derived
// from the live registry.
func (s *ContractService) List(ctx context.Context) ([]domain.Contract, error) {
	contracts, err := s.store.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range contracts {
		contracts[i].Indexed = s.retrieval.IsIndexed(contracts[i].ID)
	}
	return contracts, nil
}

// Remove deletes a contract from the store and drops its index. Dropping
// the index first guarantees no search can hit a contract that is about
// to disappear.
func (s *ContractService) Remove(ctx context.Context, id string) error {
	s.retrieval.RemoveContract(ctx, id)
	if err := s.store.DeleteContract(ctx, id); err != nil {
		return fmt.Errorf("delete contract %s: %w", id, err)
	}
	logger.Info("Removed contract %s", id)
	return nil
}

// Reindex rebuilds the vector index from the stored text. Indices live in
// memory only, so this runs for each contract after restart. The stored
// row is left untouched; Get and List derive the Indexed flag from the
// registry.
func (s *ContractService) Reindex(ctx context.Context, id string) error {
	contract, err := s.store.GetContract(ctx, id)
	if err != nil {
		return fmt.Errorf("load contract %s: %w", id, err)
	}

	if err := s.retrieval.IndexContract(ctx, contract.ID, contract.Text, contract.Language); err != nil {
		return fmt.Errorf("reindex contract %s: %w", id, err)
	}
	return nil
}

// index builds the vector index for a new contract and reports whether it
// succeeded. Embedding unavailability is expected in offline setups and
// only logged; any other failure is also non-fatal for ingestion.
func (s *ContractService) index(ctx context.Context, contract *domain.Contract) bool {
	err := s.retrieval.IndexContract(ctx, contract.ID, contract.Text, contract.Language)
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		logger.Warn("Embedding backend unavailable, contract %s stored unindexed", contract.ID)
	} else {
		logger.Warn("Indexing contract %s failed: %v", contract.ID, err)
	}
	return false
}
