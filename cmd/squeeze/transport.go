package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"squeeze/internal/fileutil"
	"squeeze/internal/orchestrator"
)

// localTransport satisfies the orchestrator's transport with plain file
// copies: the "download" stages a local file into the work dir and the
// "upload" lands the result in the configured output directory.
type localTransport struct {
	outputDir string
}

func (t *localTransport) Download(_ context.Context, ref, dir string) (string, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}
	staged := filepath.Join(dir, filepath.Base(ref))
	if err := fileutil.CopyFile(ref, staged); err != nil {
		return "", fmt.Errorf("stage %s: %w", ref, err)
	}
	return staged, nil
}

func (t *localTransport) Upload(_ context.Context, path string, _ orchestrator.UploadKind) error {
	if err := fileutil.EnsureDir(t.outputDir); err != nil {
		return err
	}
	target := filepath.Join(t.outputDir, filepath.Base(path))
	if err := fileutil.CopyFile(path, target); err != nil {
		return fmt.Errorf("deliver %s: %w", path, err)
	}
	return nil
}

var _ orchestrator.MediaTransport = (*localTransport)(nil)

// consoleSink prints status updates to the command's output stream. Each
// "edit" is a fresh print; a terminal transcript has no message to rewrite.
type consoleSink struct {
	out io.Writer
}

func (s *consoleSink) Post(_ context.Context, text string) (string, error) {
	fmt.Fprintln(s.out, text)
	return "console", nil
}

func (s *consoleSink) Edit(_ context.Context, _ string, text string) error {
	fmt.Fprintln(s.out, text)
	return nil
}
