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
	"squeeze/internal/strategy"
)

// Video recodes a video file to the fixed output profile using the
// selected strategy's rate parameters. With Animation set the input is
// re-containered as-is instead of being recoded.
type Video struct {
	runner    ffmpeg.Runner
	encoder   config.Encoder
	params    strategy.Params
	animation bool
	logger    *slog.Logger
}

// NewVideo constructs a video compressor.
func NewVideo(runner ffmpeg.Runner, encoder config.Encoder, params strategy.Params, animation bool, logger *slog.Logger) *Video {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Video{runner: runner, encoder: encoder, params: params, animation: animation, logger: logger}
}

// OutputSuffix returns the container extension video encodes produce.
func (v *Video) OutputSuffix() string {
	return ".mp4"
}

// Compress runs the encoder and streams monotone percent samples derived
// from the encoder's own position reports.
func (v *Video) Compress(ctx context.Context, req Request, onProgress func(progress.Sample)) (Result, error) {
	args := ffmpeg.VideoArgs(v.encoder, v.params, req.InputPath, req.OutputPath)
	if v.animation {
		args = ffmpeg.AnimationArgs(req.InputPath, req.OutputPath)
	}

	var clamp progress.Monotone
	started := time.Now()
	err := v.runner.Run(ctx, args, func(update ffmpeg.ProgressUpdate) {
		if onProgress == nil {
			return
		}
		sample := progress.Sample{
			Elapsed: update.Elapsed,
			Percent: update.Percent,
		}
		onProgress(clamp.Clamp(sample))
	})
	if err != nil {
		return Result{}, err
	}

	if !fileutil.Exists(req.OutputPath) {
		return Result{}, services.Wrap(services.ErrEmptyOutput, "compress", "verify", "encoder produced no output", nil)
	}

	duration := time.Since(started)
	v.logger.Info("video compression finished",
		logging.String("output", req.OutputPath),
		logging.Duration("duration", duration),
		logging.Bool("animation", v.animation))
	return Result{OutputPath: req.OutputPath, Duration: duration}, nil
}

var _ Compressor = (*Video)(nil)
