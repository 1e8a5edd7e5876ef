// Package digest computes SHA-512 content digests over files.
package digest

import (
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrReadFile is returned when the target file cannot be opened or read.
var ErrReadFile = errors.New("failed to read file")

// File returns the lowercase hex-encoded SHA-512 digest of the file at path.
//
// On any open or read failure it returns an empty string alongside the
// wrapped error, matching the contract callers historically relied on:
// treat "" as "could not compute", not as a valid all-zero digest.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(ErrReadFile, err.Error())
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(ErrReadFile, err.Error())
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the lowercase hex-encoded SHA-512 digest of content.
func Bytes(content []byte) string {
	sum := sha512.Sum512(content)
	return hex.EncodeToString(sum[:])
}

// Sum returns the raw SHA-512 digest of content.
func Sum(content []byte) []byte {
	sum := sha512.Sum512(content)
	return sum[:]
}
