package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestLoadEnvFileSetsVariables$
func TestLoadEnvFileSetsVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nP12_PASSWORD=segredo123\nEMPTY_LINE_ABOVE=yes\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("P12_PASSWORD", "")
	t.Setenv("EMPTY_LINE_ABOVE", "")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "segredo123", os.Getenv("P12_PASSWORD"))
	assert.Equal(t, "yes", os.Getenv("EMPTY_LINE_ABOVE"))
}

// go test -run ^TestLoadEnvFileOverwritesExisting$
func TestLoadEnvFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("P12_PASSWORD=novo\n"), 0644))

	t.Setenv("P12_PASSWORD", "antigo")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "novo", os.Getenv("P12_PASSWORD"))
}

// go test -run ^TestLoadEnvFileMissingReturnsError$
func TestLoadEnvFileMissingReturnsError(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadEnvFile)
}
