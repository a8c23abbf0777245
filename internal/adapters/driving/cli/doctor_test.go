package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoctorCmd_Use(t *testing.T) {
	assert.Equal(t, "doctor", doctorCmd.Use)
}

func TestDoctorCmd_UnconfiguredProviders(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"doctor"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Embedding: not configured")
	assert.Contains(t, buf.String(), "LLM: not configured")
}

func TestDoctorCmd_UnreachableProviderFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	// Point at a port nothing listens on; the ping must fail fast.
	assert.NoError(t, configStore.Set("llm.provider", "ollama"))
	assert.NoError(t, configStore.Set("llm.base_url", "http://127.0.0.1:1"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"doctor"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "UNREACHABLE")
}
