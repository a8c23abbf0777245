package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contralens/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/contralens/internal/core/services"
)

// newTestSetup wires a contract service over in-memory storage with no
// embedding backend; ingested contracts are stored unindexed.
func newTestSetup() (*services.ContractService, *memory.ContractStore) {
	store := memory.NewContractStore()
	retrieval := services.NewRetrievalService(flat.NewRegistry(), flat.NewBuilder(), nil, nil)
	return services.NewContractService(store, retrieval), store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestWatchable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"contract.txt", true},
		{"notes.md", true},
		{"CONTRACT.TXT", true},
		{"scan.pdf", false},
		{"image.png", false},
		{"no-extension", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, watchable(tt.path))
		})
	}
}

func TestIngestExisting_IngestsWatchableFiles(t *testing.T) {
	contracts, store := newTestSetup()
	dir := t.TempDir()
	writeFile(t, dir, "nda.txt", "Confidentiality obligations survive termination.")
	writeFile(t, dir, "msa.md", "The supplier shall provide services as described.")
	writeFile(t, dir, "scan.pdf", "binary-ish content")

	w := New(contracts, []string{dir})
	err := w.IngestExisting(context.Background())
	require.NoError(t, err)

	stored, err := store.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	titles := []string{stored[0].Title, stored[1].Title}
	assert.Contains(t, titles, "nda.txt")
	assert.Contains(t, titles, "msa.md")
}

func TestIngestExisting_SkipsUnchangedFiles(t *testing.T) {
	contracts, store := newTestSetup()
	dir := t.TempDir()
	writeFile(t, dir, "lease.txt", "The tenant shall pay rent monthly.")

	w := New(contracts, []string{dir})
	ctx := context.Background()
	require.NoError(t, w.IngestExisting(ctx))
	require.NoError(t, w.IngestExisting(ctx))

	stored, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngestExisting_EmptyFileDoesNotAbortTheScan(t *testing.T) {
	contracts, store := newTestSetup()
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   ")
	writeFile(t, dir, "real.txt", "Payment terms are net thirty days.")

	w := New(contracts, []string{dir})
	err := w.IngestExisting(context.Background())
	require.NoError(t, err)

	stored, err := store.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, "real.txt", stored[0].Title)
}

func TestIngestExisting_MissingDirErrors(t *testing.T) {
	contracts, _ := newTestSetup()

	w := New(contracts, []string{"/nonexistent/inbox"})
	err := w.IngestExisting(context.Background())

	assert.Error(t, err)
}

func TestRun_NoDirsErrors(t *testing.T) {
	contracts, _ := newTestSetup()

	w := New(contracts, nil)
	err := w.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no directories to watch")
}
