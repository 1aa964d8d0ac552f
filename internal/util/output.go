package util

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenLogOutput returns stdout, or stdout teed into path when path is set.
// The returned closer is nil when no file was opened.
func OpenLogOutput(path string) (io.Writer, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Stdout, nil, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(os.Stdout, f), f, nil
}
