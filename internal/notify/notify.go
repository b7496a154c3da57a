// Package notify delivers user-facing status updates for in-flight jobs.
// A Sink abstracts the delivery surface; the Reporter layered on top owns
// the single status message per job, throttles progress edits, and keeps
// delivery failures away from the processing pipeline.
package notify

import (
	"context"
	"errors"
)

// Sentinel errors a Sink may return from Edit.
var (
	// ErrMessageTooLong signals the surface rejected the text for size.
	// The reporter responds by starting a fresh status message.
	ErrMessageTooLong = errors.New("message too long")
	// ErrNotModified signals the surface saw identical text. Treated as
	// success.
	ErrNotModified = errors.New("message not modified")
)

// Sink delivers status text to a user-facing surface.
type Sink interface {
	// Post creates a new status message and returns its handle.
	Post(ctx context.Context, text string) (string, error)
	// Edit replaces the text of an existing status message.
	Edit(ctx context.Context, id, text string) error
}

// Noop is a Sink that accepts and discards every message.
type Noop struct{}

// Post implements Sink.
func (Noop) Post(context.Context, string) (string, error) { return "noop", nil }

// Edit implements Sink.
func (Noop) Edit(context.Context, string, string) error { return nil }

var _ Sink = Noop{}
