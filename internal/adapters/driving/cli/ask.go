package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askContract string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your contracts",
	Long: `Answers a natural-language question grounded in retrieved contract
chunks. With --contract the question is scoped to one contract; without
it, retrieval spans all indexed contracts. Without a configured LLM the
answer falls back to the raw top excerpts.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askContract, "contract", "c", "", "scope the question to one contract ID")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	answer, err := chatService.Ask(cmd.Context(), args[0], askContract)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  [%s] (p.%d) %s\n", src.ChunkID, src.Page, excerpt(src.Snippet, 160))
		}
	}
	cmd.Printf("\nConfidence: %.2f\n", answer.Confidence)
	return nil
}
