// Package compress turns a staged source file into its reduced-size
// rendition. Each compressor owns one media class: full video recodes,
// bare animation re-containers, and audio-only exports. Video progress is
// read from the encoder itself; audio encodes finish too fast for the
// encoder stream to be useful, so their progress is estimated from elapsed
// wall time against a size-derived budget.
package compress

import (
	"context"
	"time"

	"squeeze/internal/progress"
)

// Request names the input and output of one compression run.
type Request struct {
	InputPath  string
	OutputPath string
	// EstimatedSeconds sizes the elapsed-time fallback used when the
	// encoder produces no parsable progress. Zero disables the fallback.
	EstimatedSeconds float64
}

// Result reports what a compressor produced.
type Result struct {
	OutputPath string
	Duration   time.Duration
}

// Compressor produces a compressed rendition of a staged source file.
type Compressor interface {
	// Compress encodes the request's input into its output path. The
	// progress callback, when non-nil, receives monotone percent samples.
	Compress(ctx context.Context, req Request, onProgress func(progress.Sample)) (Result, error)

	// OutputSuffix is the file extension this compressor produces,
	// including the leading dot.
	OutputSuffix() string
}
