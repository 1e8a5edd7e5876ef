// Package config provides a minimal .env loader for local/demo use. It
// is deliberately not a general configuration framework: the service
// itself reads its listen address from flags (see cmd/server), and this
// package only exists to let cmd/democli pick up a PKCS#12 password
// without requiring it on the command line.
package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrReadEnvFile is returned when the .env file exists but cannot be read.
var ErrReadEnvFile = errors.New("failed to read .env file")

// LoadEnvFile parses a dotenv-style file at path and applies its KEY=VALUE
// pairs to the process environment, overwriting any variable already
// set. Blank lines and lines starting with '#' (after trimming leading
// whitespace) are skipped. A missing file is reported like any other open
// failure, as an error wrapping ErrReadEnvFile; the underlying os error is
// kept only as message text, so os.IsNotExist does not recognise it.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(ErrReadEnvFile, err.Error())
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimRight(value, "\r")

		if err := os.Setenv(key, value); err != nil {
			return errors.Wrap(ErrReadEnvFile, err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(ErrReadEnvFile, err.Error())
	}
	return nil
}
