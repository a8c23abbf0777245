package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested contracts",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if contractService == nil {
		return errors.New("contract service not configured")
	}

	contracts, err := contractService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(contracts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal contracts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(contracts) == 0 {
		cmd.Println("No contracts ingested yet.")
		return nil
	}

	cmd.Println("Contracts:")
	cmd.Println()
	for i := range contracts {
		indexed := "no"
		if contracts[i].Indexed {
			indexed = "yes"
		}
		cmd.Printf("  %s\n", contracts[i].ID)
		cmd.Printf("    Title:    %s\n", contracts[i].Title)
		cmd.Printf("    Language: %s\n", contracts[i].Language)
		cmd.Printf("    Indexed:  %s\n", indexed)
		cmd.Printf("    Added:    %s\n", contracts[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d contracts\n", len(contracts))
	return nil
}
