package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

var (
	searchContract string
	searchLimit    int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed contract text",
	Long: `Performs semantic search over indexed contract chunks.
With --contract the search is scoped to one contract; without it the
query runs across every indexed contract, globally ranked by score.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchContract, "contract", "c", "", "scope the search to one contract ID")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := cmd.Context()

	var hits []domain.SearchHit
	var err error
	if searchContract != "" {
		hits, err = retrievalService.SearchContract(ctx, searchContract, query, searchLimit)
	} else {
		hits, err = retrievalService.SearchAll(ctx, query, searchLimit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, hits[i].ChunkID, hits[i].Score)
		if hits[i].ContractID != "" {
			cmd.Printf("      Contract: %s\n", hits[i].ContractID)
		}
		cmd.Printf("      %s\n", excerpt(hits[i].Text, 200))
		cmd.Println()
	}
	return nil
}

// excerpt truncates text for table display.
func excerpt(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "…"
}
