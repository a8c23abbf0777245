package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testStoreContract(id string) *domain.Contract {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Contract{
		ID:        id,
		Title:     "Master Services Agreement",
		Filename:  "msa.pdf",
		Language:  "en",
		Text:      "The Supplier shall provide services.",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_SaveAndGetContract(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	contract := testStoreContract("doc-1")
	require.NoError(t, store.SaveContract(ctx, contract))

	got, err := store.GetContract(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, contract.Title, got.Title)
	assert.Equal(t, contract.Text, got.Text)
	assert.Equal(t, contract.Language, got.Language)
	// Indexed never survives storage.
	assert.False(t, got.Indexed)
}

func TestStore_GetContract_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetContract(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveContract_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	contract := testStoreContract("doc-1")
	require.NoError(t, store.SaveContract(ctx, contract))

	contract.Text = "Amended terms."
	contract.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.SaveContract(ctx, contract))

	got, err := store.GetContract(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Amended terms.", got.Text)

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}

func TestStore_ListContracts_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testStoreContract("doc-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.SaveContract(ctx, older))

	newer := testStoreContract("doc-new")
	require.NoError(t, store.SaveContract(ctx, newer))

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "doc-new", contracts[0].ID)
	assert.Equal(t, "doc-old", contracts[1].ID)
}

func TestStore_DeleteContract(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, testStoreContract("doc-1")))
	require.NoError(t, store.DeleteContract(ctx, "doc-1"))

	_, err := store.GetContract(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.DeleteContract(ctx, "doc-1"), domain.ErrNotFound)
}

func TestStore_DeleteContract_CascadesReportAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, testStoreContract("doc-1")))

	report := &domain.RiskReport{
		Risks: []domain.RiskFinding{{ID: "r1", Title: "T", Severity: domain.SeverityHigh, Finding: "f"}},
	}
	report.Overall = report.Score()
	require.NoError(t, store.SaveReport(ctx, "doc-1", report))
	require.NoError(t, store.SaveExchange(ctx, &domain.Exchange{
		ID: "ex-1", ContractID: "doc-1", Question: "Q?",
		Answer: domain.Answer{Answer: "A."},
	}))

	require.NoError(t, store.DeleteContract(ctx, "doc-1"))

	_, err := store.GetReport(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exchanges, err := store.ListExchanges(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestStore_SaveReport_ReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, testStoreContract("doc-1")))

	first := &domain.RiskReport{
		Risks: []domain.RiskFinding{{ID: "r1", Title: "First", Severity: domain.SeverityLow, Finding: "f"}},
	}
	first.Overall = first.Score()
	require.NoError(t, store.SaveReport(ctx, "doc-1", first))

	second := &domain.RiskReport{
		Risks: []domain.RiskFinding{{ID: "r2", Title: "Second", Severity: domain.SeverityCritical, Finding: "f"}},
	}
	second.Overall = second.Score()
	require.NoError(t, store.SaveReport(ctx, "doc-1", second))

	got, err := store.GetReport(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got.Risks, 1)
	assert.Equal(t, "r2", got.Risks[0].ID)
	assert.Equal(t, domain.SeverityCritical, got.Overall.Level)
}

func TestStore_Exchanges_OldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Minute)
	for i, q := range []string{"first?", "second?", "third?"} {
		require.NoError(t, store.SaveExchange(ctx, &domain.Exchange{
			ID:         q,
			ContractID: "doc-1",
			Question:   q,
			Answer:     domain.Answer{Answer: "A.", Sources: []domain.Citation{}},
			AskedAt:    base.Add(time.Duration(i) * time.Second),
		}))
	}

	exchanges, err := store.ListExchanges(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, exchanges, 3)
	assert.Equal(t, "first?", exchanges[0].Question)
	assert.Equal(t, "third?", exchanges[2].Question)
	assert.Equal(t, "A.", exchanges[0].Answer.Answer)
}
