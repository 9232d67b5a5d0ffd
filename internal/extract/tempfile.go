package extract

import (
	"fmt"
	"os"
)

// withTempFile writes content to a temporary file with the given extension,
// calls fn with its path and removes the file afterwards.
func withTempFile(content []byte, ext string, fn func(path string) error) error {
	f, err := os.CreateTemp("", "coursepilot-*"+ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return fn(path)
}
