// Package fileutil owns temp artifacts: allocation, backup copies, size
// checks, and best-effort cleanup.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempFile allocates an empty file in dir using pattern (os.CreateTemp
// semantics) and returns its path. The file is closed before returning so an
// external encoder can overwrite it.
func TempFile(dir, pattern string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CreateBackup copies path to a sibling ".backup" file and returns the backup
// path. Failures are reported but callers treat them as non-fatal: a job runs
// without a rollback safety net rather than aborting.
func CreateBackup(path string) (string, error) {
	backup := path + ".backup"
	if err := CopyFile(path, backup); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	return backup, nil
}

// Exists reports whether path names a file with at least one byte. A
// zero-byte file is treated as absent; the encoder writes the output file
// before producing any content, so size is the real success signal.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// SizeBytes returns the file size, or 0 when the file cannot be statted.
func SizeBytes(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// SizeMB returns the file size in mebibytes, or 0 when unavailable.
func SizeMB(path string) float64 {
	return float64(SizeBytes(path)) / (1024 * 1024)
}

// Cleanup removes every named path, ignoring empty entries and individual
// failures so one locked or missing file never blocks the rest.
func Cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		_ = os.Remove(path)
	}
}

// EnsureDir creates dir and parents when missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// UniqueSibling returns a path in the same directory as base with the given
// suffix, avoiding collisions with existing files.
func UniqueSibling(base, suffix string) string {
	dir := filepath.Dir(base)
	stem := filepath.Base(base)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	candidate := filepath.Join(dir, stem+suffix)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, suffix))
	}
}
