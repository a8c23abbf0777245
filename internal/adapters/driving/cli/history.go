package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [contract-id]",
	Short: "Show the chat history for a contract",
	Long: `Prints the persisted question/answer exchanges for a contract, oldest
first. Pass an empty string ("") to list cross-contract questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if contractStore == nil {
		return errors.New("contract store not configured")
	}

	exchanges, err := contractStore.ListExchanges(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(exchanges) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for i := range exchanges {
		cmd.Printf("[%s] Q: %s\n", exchanges[i].AskedAt.Format("2006-01-02 15:04"), exchanges[i].Question)
		cmd.Printf("         A: %s\n", excerpt(exchanges[i].Answer.Answer, 300))
		cmd.Println()
	}
	return nil
}
