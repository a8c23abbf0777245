package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempContract(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestAddCmd_Use(t *testing.T) {
	assert.Equal(t, "add [file]", addCmd.Use)
}

func TestAddCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAddCmd_HasTitleAndLanguageFlags(t *testing.T) {
	titleFlag := addCmd.Flags().Lookup("title")
	require.NotNil(t, titleFlag)
	assert.Equal(t, "t", titleFlag.Shorthand)

	langFlag := addCmd.Flags().Lookup("language")
	require.NotNil(t, langFlag)
	assert.Equal(t, "en", langFlag.DefValue)
}

func TestAddCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempContract(t, "nda.txt",
		"This agreement is between the parties and governs confidentiality obligations.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"add", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Added contract")
	assert.Contains(t, buf.String(), "nda.txt")
	assert.Contains(t, buf.String(), "Indexed:  yes")
}

func TestAddCmd_TitleFlagOverridesFilename(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempContract(t, "raw.txt", "Payment is due within thirty days of invoice.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"add", "--title", "Master Services Agreement", path})
	defer func() {
		rootCmd.SetArgs(nil)
		addTitle = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Master Services Agreement")
}

func TestAddCmd_EmptyFileErrors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempContract(t, "empty.txt", "   \n\t  ")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty contract text")
}

func TestAddCmd_MissingFileErrors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add", "/nonexistent/contract.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestAddCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	oldService := contractService
	contractService = nil
	defer func() {
		contractService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add", "whatever.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
