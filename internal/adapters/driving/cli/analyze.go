package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/logger"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [contract-id]",
	Short: "Run risk analysis on a contract",
	Long: `Runs the rule-based risk checklist over the contract text and, when an
LLM is configured, merges its validated critique. The resulting report
replaces any previous one for the contract.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if contractService == nil || riskService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := cmd.Context()
	id := args[0]

	contract, err := contractService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}

	// Extracted fields give the critique structured context.
	var extracted map[string]any
	if extractionService != nil {
		extracted = extractionService.Extract(ctx, contract)
	}

	report, err := riskService.Analyze(ctx, contract.ID, contract.Text, contract.Language, extracted)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if contractStore != nil {
		if err := contractStore.SaveReport(ctx, contract.ID, report); err != nil {
			logger.Warn("Could not persist report for %s: %v", contract.ID, err)
		}
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputReport(cmd, contract.Title, report)
	return nil
}

func outputReport(cmd *cobra.Command, title string, report *domain.RiskReport) {
	cmd.Printf("Risk report: %s\n\n", title)
	cmd.Printf("  Overall: %s (score %d/100)\n", report.Overall.Level, report.Overall.Score)
	cmd.Printf("  %s\n", report.Overall.Summary)

	if len(report.Risks) > 0 {
		cmd.Println("\n  Risks:")
		for _, f := range report.Risks {
			cmd.Printf("    [%s] %s\n", f.Severity, f.Title)
			cmd.Printf("        %s\n", f.Finding)
		}
	}

	if len(report.NonStandard) > 0 {
		cmd.Println("\n  Non-standard terms:")
		for _, f := range report.NonStandard {
			cmd.Printf("    [%s] %s\n", f.Severity, f.Title)
			cmd.Printf("        %s\n", f.Finding)
		}
	}

	if len(report.MissingClauses) > 0 {
		cmd.Println("\n  Missing clauses:")
		for _, m := range report.MissingClauses {
			cmd.Printf("    %s: %s\n", m.Clause, m.Why)
		}
	}
}
