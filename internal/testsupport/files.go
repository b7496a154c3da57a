package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with exactly size bytes of filler content, making
// parent directories as needed. A size <= 0 still produces a one-byte file
// so the result always exists on disk.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	filler := bytes.Repeat([]byte("squeeze-test-data\n"), 512)
	if _, err := io.CopyN(f, repeatReader{filler}, size); err != nil {
		f.Close()
		t.Fatalf("fill %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

// repeatReader yields its block endlessly.
type repeatReader struct {
	block []byte
}

func (r repeatReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		n += copy(p[n:], r.block)
	}
	return n, nil
}
