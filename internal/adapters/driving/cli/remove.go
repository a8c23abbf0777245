package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [contract-id]",
	Short: "Remove a contract and its analysis",
	Long:  `Deletes the contract, its risk report, its chat history and its vector index.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if contractService == nil {
		return errors.New("contract service not configured")
	}

	id := args[0]
	if err := contractService.Remove(cmd.Context(), id); err != nil {
		return fmt.Errorf("remove contract: %w", err)
	}

	cmd.Printf("Removed contract %s\n", id)
	return nil
}
