package utils

import (
	"path/filepath"
	"strings"
)

// TrimExt strips the directory and the last extension from a file path.
// "pages/index.py" -> "index".
func TrimExt(path string) string {
	name := filepath.Base(path)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// ShortPath keeps the last n elements of a slash or OS separated path.
func ShortPath(path string, n int) string {
	path = filepath.ToSlash(path)
	parts := strings.Split(path, "/")
	if n <= 0 || len(parts) <= n {
		return path
	}
	return strings.Join(parts[len(parts)-n:], "/")
}
