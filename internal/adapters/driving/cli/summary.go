package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary [contract-id]",
	Short: "Produce a structured contract summary",
	Long: `Generates an executive summary of the contract. The stored risk report
feeds the summary when one exists; run 'contralens analyze' first for the
richest output. Without a configured LLM a deterministic summary is
assembled from the stored metadata and report.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if contractService == nil || summaryService == nil {
		return errors.New("summary service not configured")
	}

	ctx := cmd.Context()
	id := args[0]

	contract, err := contractService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}

	// The report is optional context; a missing one is not an error.
	var report *domain.RiskReport
	if contractStore != nil {
		report, _ = contractStore.GetReport(ctx, id)
	}

	var extracted map[string]any
	if extractionService != nil {
		extracted = extractionService.Extract(ctx, contract)
	}

	summary, err := summaryService.Summarise(ctx, contract, extracted, report)
	if err != nil {
		return fmt.Errorf("summarise failed: %w", err)
	}

	if summaryJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Summary: %s\n\n", contract.Title)
	cmd.Println(summary.Summary)
	if summary.Purpose != "" {
		cmd.Printf("\nPurpose: %s\n", summary.Purpose)
	}
	if summary.Scope != "" {
		cmd.Printf("Scope: %s\n", summary.Scope)
	}

	if len(summary.KeyObligations) > 0 {
		cmd.Println("\nKey obligations:")
		parties := make([]string, 0, len(summary.KeyObligations))
		for party := range summary.KeyObligations {
			parties = append(parties, party)
		}
		sort.Strings(parties)
		for _, party := range parties {
			cmd.Printf("  %s:\n", party)
			for _, obligation := range summary.KeyObligations[party] {
				cmd.Printf("    - %s\n", obligation)
			}
		}
	}

	if len(summary.Highlights) > 0 {
		cmd.Println("\nHighlights:")
		for _, h := range summary.Highlights {
			cmd.Printf("  - %s\n", h)
		}
	}
	return nil
}
