// Package cli implements the contralens command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/adapters/driven/ai"
	"github.com/custodia-labs/contralens/internal/adapters/driven/config/file"
	"github.com/custodia-labs/contralens/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/contralens/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/contralens/internal/chunker"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/core/services"
	"github.com/custodia-labs/contralens/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices. Tests swap these for in-memory
// implementations.
var (
	configStore       driven.ConfigStore
	contractStore     driven.ContractStore
	retrievalService  driving.RetrievalService
	contractService   driving.ContractService
	extractionService driving.ExtractionService
	riskService       driving.RiskAnalysisService
	summaryService    driving.SummaryService
	chatService       driving.ChatService

	aiServices *ai.InitResult
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "contralens",
	Short: "Analyse contracts for risk from your terminal",
	Long: `Contralens ingests contract text, indexes it for semantic retrieval,
runs a rule-based risk checklist optionally enriched by an LLM critique,
and answers questions grounded in the contract text.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context, so that
// long-running commands like watch stop on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initRoot wires real services before any command runs. Commands that
// only print local information skip the wiring.
func initRoot(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	// Already wired, either by a previous run or by a test harness.
	if configStore != nil {
		return nil
	}

	return initServices(cmd)
}

// initServices builds the full service graph from configuration.
// Unreachable AI providers degrade to warnings; storage failures are fatal.
func initServices(cmd *cobra.Command) error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = cfg

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	contractStore = store

	aiServices = ai.Init(cfg)
	for _, warning := range aiServices.Warnings {
		logger.Warn("%s", warning)
	}

	chunkOpts := []chunker.Option{
		chunker.WithWindow(cfg.GetInt("chunker.window")),
	}
	if _, ok := cfg.Get("chunker.overlap"); ok {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(cfg.GetInt("chunker.overlap")))
	}

	retrievalService = services.NewRetrievalService(
		flat.NewRegistry(),
		flat.NewBuilder(),
		aiServices.EmbeddingService,
		chunker.New(chunkOpts...),
	)
	contractService = services.NewContractService(store, retrievalService)
	extractionService = services.NewExtractionService(aiServices.LLMService, prompts)
	riskService = services.NewRiskService(aiServices.LLMService, prompts)
	summaryService = services.NewSummaryService(aiServices.LLMService, prompts)
	chatService = services.NewChatService(retrievalService, aiServices.LLMService, store, prompts)

	restoreIndexes(cmd.Context())

	return nil
}

// restoreIndexes rebuilds the in-memory vector indexes from stored text.
// Indexes do not survive restarts, so every run starts here. Failures are
// per-contract warnings; the affected contract just stays unindexed.
func restoreIndexes(ctx context.Context) {
	if aiServices == nil || aiServices.EmbeddingService == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	contracts, err := contractService.List(ctx)
	if err != nil {
		logger.Warn("Could not list contracts for reindexing: %v", err)
		return
	}

	for i := range contracts {
		if err := contractService.Reindex(ctx, contracts[i].ID); err != nil {
			logger.Warn("Reindex %s failed: %v", contracts[i].ID, err)
		}
	}
	logger.Debug("Restored indexes for %d contracts", len(contracts))
}
