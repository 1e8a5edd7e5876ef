package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestFileKnownVector$
func TestFileKnownVector(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("123456"), 0644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "ba3253876aed6bc22d4a6ff53d8406c6ad864195ed144ab5c87621b6c233b548baeae6956df346ec8c17f5ea10f35ee3cbc514797ed7ddd3145464e2a0bab413", got)
}

// go test -run ^TestFileEmpty$
func TestFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e", got)
}

// go test -run ^TestFileMissing$
func TestFileMissing(t *testing.T) {
	got, err := File(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	assert.Error(t, err)
	assert.Empty(t, got)
}

// go test -run ^TestBytesMatchesFile$
func TestBytesMatchesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	fromFile, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, fromFile, Bytes([]byte("abc")))
	assert.Equal(t, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f", fromFile)
}
