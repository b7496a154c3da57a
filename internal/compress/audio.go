package compress

import (
	"context"
	"log/slog"
	"time"

	"squeeze/internal/config"
	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/progress"
	"squeeze/internal/services"
	"squeeze/internal/services/ffmpeg"
)

// Audio exports the audio track alone as a low-bitrate mp3. The encoder
// typically finishes these in seconds and writes no usable position
// markers for small inputs, so progress is estimated from elapsed wall
// time against the request's seconds budget and flagged as such.
type Audio struct {
	runner  ffmpeg.Runner
	encoder config.Encoder
	logger  *slog.Logger

	// tick is the estimator cadence; shortened by tests.
	tick time.Duration
}

// NewAudio constructs an audio compressor.
func NewAudio(runner ffmpeg.Runner, encoder config.Encoder, logger *slog.Logger) *Audio {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Audio{runner: runner, encoder: encoder, logger: logger, tick: time.Second}
}

// OutputSuffix returns the extension audio exports produce.
func (a *Audio) OutputSuffix() string {
	return ".mp3"
}

// Compress runs the audio export while a supervisor goroutine emits
// estimated progress. The supervisor is always joined before returning so
// no sample is delivered after Compress completes.
func (a *Audio) Compress(ctx context.Context, req Request, onProgress func(progress.Sample)) (Result, error) {
	started := time.Now()
	done := make(chan struct{})
	finished := make(chan struct{})

	if onProgress != nil && req.EstimatedSeconds > 0 {
		go a.estimate(started, req.EstimatedSeconds, onProgress, done, finished)
	} else {
		close(finished)
	}

	err := a.runner.Run(ctx, ffmpeg.AudioArgs(a.encoder, req.InputPath, req.OutputPath), nil)
	close(done)
	<-finished
	if err != nil {
		return Result{}, err
	}

	if !fileutil.Exists(req.OutputPath) {
		return Result{}, services.Wrap(services.ErrEmptyOutput, "compress", "verify", "encoder produced no output", nil)
	}

	duration := time.Since(started)
	a.logger.Info("audio export finished",
		logging.String("output", req.OutputPath),
		logging.Duration("duration", duration))
	return Result{OutputPath: req.OutputPath, Duration: duration}, nil
}

// estimate emits percent samples at the estimator cadence until done
// closes, holding short of 100 so only real completion can report it.
func (a *Audio) estimate(started time.Time, budgetSeconds float64, onProgress func(progress.Sample), done <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	var clamp progress.Monotone
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			elapsed := time.Since(started)
			percent := elapsed.Seconds() / budgetSeconds * 100
			if percent > 99 {
				percent = 99
			}
			onProgress(clamp.Clamp(progress.Sample{
				Elapsed:   elapsed,
				Percent:   percent,
				Estimated: true,
			}))
		}
	}
}

var _ Compressor = (*Audio)(nil)
