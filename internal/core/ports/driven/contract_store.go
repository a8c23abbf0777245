package driven

import (
	"context"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// ContractStore persists contract metadata, risk reports and chat history.
// Backed by SQLite for durable storage; vector indices are NOT persisted
// and are rebuilt from the stored text after restart.
type ContractStore interface {
	// SaveContract stores or updates a contract.
	SaveContract(ctx context.Context, contract *domain.Contract) error

	// GetContract retrieves a contract by ID.
	GetContract(ctx context.Context, id string) (*domain.Contract, error)

	// ListContracts returns all contracts, newest first.
	ListContracts(ctx context.Context) ([]domain.Contract, error)

	// DeleteContract removes a contract, its report and its chat history.
	DeleteContract(ctx context.Context, id string) error

	// SaveReport stores the latest risk report for a contract,
	// replacing any previous one.
	SaveReport(ctx context.Context, contractID string, report *domain.RiskReport) error

	// GetReport retrieves the latest risk report for a contract.
	GetReport(ctx context.Context, contractID string) (*domain.RiskReport, error)

	// SaveExchange appends a question/answer pair to the chat history.
	SaveExchange(ctx context.Context, exchange *domain.Exchange) error

	// ListExchanges returns the chat history for a contract, oldest first.
	ListExchanges(ctx context.Context, contractID string) ([]domain.Exchange, error)
}
