package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the failure taxonomy. Stage code wraps concrete errors
// with one of these so the orchestrator can classify a failure without
// depending on the package that produced it.
var (
	// ErrDownload marks transport download failures.
	ErrDownload = errors.New("download error")
	// ErrBackup marks backup-creation failures. Non-fatal: the orchestrator
	// logs and continues with a reduced safety net.
	ErrBackup = errors.New("backup error")
	// ErrInvalidStrategy marks unrecognized strategy identifiers.
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrEncode marks non-zero exits from the external encoder. The wrapped
	// error carries the captured diagnostic text.
	ErrEncode = errors.New("encode error")
	// ErrInternal marks faults in our own code before or after the encoder
	// ran, distinct from the encoder rejecting its input.
	ErrInternal = errors.New("internal compression error")
	// ErrEmptyOutput marks an output file that exists but holds zero bytes.
	ErrEmptyOutput = errors.New("empty output")
	// ErrDelivery marks transport upload failures. Swallowed after the
	// rollback attempt.
	ErrDelivery = errors.New("delivery error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
