package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCmd_Use(t *testing.T) {
	assert.Equal(t, "summary [contract-id]", summaryCmd.Use)
}

func TestSummaryCmd_UnknownContractErrors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summary", "no-such-id"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSummaryCmd_IncludesExtractedFields(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	id := addContractForTest(t, "This Agreement is between Acme Corp and Widget Ltd. "+
		"WHEREAS the parties wish to contract for services. Governing Law: Qatar.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summary", id})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Acme Corp and Widget Ltd")
	assert.Contains(t, buf.String(), "Governing law: Qatar")
}

func TestSummaryCmd_DeterministicWithoutLLM(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	id := addContractForTest(t, "The consultant shall provide advisory services to the client.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summary", id})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Summary: Test Contract")
	assert.NotEmpty(t, buf.String())
}

func TestSummaryCmd_UsesStoredReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	id := addContractForTest(t, "Plain agreement text missing all baseline protections.")

	// Analyze first so a report is stored for the summary to draw on.
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"analyze", id})
	require.NoError(t, rootCmd.Execute())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summary", id})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Highlights:")
}

func TestSummaryCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	id := addContractForTest(t, "Agreement for the supply of widgets on standard terms.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summary", "--json", id})
	defer func() {
		rootCmd.SetArgs(nil)
		summaryJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"summary\"")
	assert.Contains(t, buf.String(), "\"highlights\"")
}
