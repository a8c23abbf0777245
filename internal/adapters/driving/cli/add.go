package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	addTitle    string
	addLanguage string
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Ingest a contract from a text file",
	Long: `Reads extracted contract text from a file, normalises it, stores it,
and builds the vector index. When no embedding provider is configured the
contract is stored unindexed and picked up by a later reindex.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "contract title (defaults to the file name)")
	addCmd.Flags().StringVarP(&addLanguage, "language", "l", "en", "contract language (en or ar)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if contractService == nil {
		return errors.New("contract service not configured")
	}

	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	contract, err := contractService.Add(cmd.Context(), addTitle, filename, addLanguage, string(text))
	if err != nil {
		return fmt.Errorf("add contract: %w", err)
	}

	cmd.Printf("Added contract %s\n", contract.ID)
	cmd.Printf("  Title:    %s\n", contract.Title)
	cmd.Printf("  Language: %s\n", contract.Language)
	if contract.Indexed {
		cmd.Println("  Indexed:  yes")
	} else {
		cmd.Println("  Indexed:  no (embedding provider unavailable)")
	}
	return nil
}
