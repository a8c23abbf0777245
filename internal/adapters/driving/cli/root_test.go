package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/contralens/internal/adapters/driven/embedding"
	"github.com/custodia-labs/contralens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contralens/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/contralens/internal/chunker"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/services"
)

// stubEmbedder produces deterministic unit vectors without a network.
type stubEmbedder struct {
	dims int
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	for i, b := range []byte(text) {
		vec[i%e.dims] += float32(b)
	}
	return embedding.Normalise(vec), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *stubEmbedder) Dimensions() int { return e.dims }

func (e *stubEmbedder) ModelName() string { return "stub-embed" }

func (e *stubEmbedder) Ping(_ context.Context) error { return nil }

func (e *stubEmbedder) Close() error { return nil }

// setupTestServices wires the full service graph against in-memory
// implementations and returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldConfig := configStore
	oldStore := contractStore
	oldRetrieval := retrievalService
	oldContract := contractService
	oldExtraction := extractionService
	oldRisk := riskService
	oldSummary := summaryService
	oldChat := chatService

	store := memory.NewContractStore()
	cfg := memory.NewConfigStore()

	var embedder driven.EmbeddingService = &stubEmbedder{dims: 8}
	retrieval := services.NewRetrievalService(flat.NewRegistry(), flat.NewBuilder(), embedder, chunker.New())

	configStore = cfg
	contractStore = store
	retrievalService = retrieval
	contractService = services.NewContractService(store, retrieval)
	extractionService = services.NewExtractionService(nil, nil)
	riskService = services.NewRiskService(nil, nil)
	summaryService = services.NewSummaryService(nil, nil)
	chatService = services.NewChatService(retrieval, nil, store, nil)

	return func() {
		configStore = oldConfig
		contractStore = oldStore
		retrievalService = oldRetrieval
		contractService = oldContract
		extractionService = oldExtraction
		riskService = oldRisk
		summaryService = oldSummary
		chatService = oldChat
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "contralens", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "add")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "remove")
	assert.Contains(t, names, "search")
	assert.Contains(t, names, "ask")
	assert.Contains(t, names, "analyze")
	assert.Contains(t, names, "summary")
	assert.Contains(t, names, "history")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "doctor")
	assert.Contains(t, names, "version")
}
