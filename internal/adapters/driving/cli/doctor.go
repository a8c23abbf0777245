package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/adapters/driven/ai"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check provider configuration and connectivity",
	Long: `Validates the configured embedding and LLM providers by pinging them.
Use this after editing config.toml to confirm credentials work.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config: %s\n\n", configStore.Path())

	healthy := true

	embSettings := ai.LoadEmbeddingSettings(configStore)
	switch {
	case !embSettings.IsConfigured():
		cmd.Println("Embedding: not configured (contracts will be stored unindexed)")
	default:
		if err := ai.ValidateEmbeddingConfig(embSettings); err != nil {
			cmd.Printf("Embedding: %s (%s) UNREACHABLE: %v\n", embSettings.Provider, embSettings.Model, err)
			healthy = false
		} else {
			cmd.Printf("Embedding: %s (%s) ok\n", embSettings.Provider, embSettings.Model)
		}
	}

	llmSettings := ai.LoadLLMSettings(configStore)
	switch {
	case !llmSettings.IsConfigured():
		cmd.Println("LLM: not configured (analysis will be rule-based only)")
	default:
		if err := ai.ValidateLLMConfig(llmSettings); err != nil {
			cmd.Printf("LLM: %s (%s) UNREACHABLE: %v\n", llmSettings.Provider, llmSettings.Model, err)
			healthy = false
		} else {
			cmd.Printf("LLM: %s (%s) ok\n", llmSettings.Provider, llmSettings.Model)
		}
	}

	if !healthy {
		return errors.New("one or more providers are unreachable")
	}
	return nil
}
