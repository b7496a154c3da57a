package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"squeeze/internal/deps"
	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/media/ffprobe"
	"squeeze/internal/orchestrator"
	"squeeze/internal/services/ffmpeg"
	"squeeze/internal/store"
)

func newProcessCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		strategyFlag string
		audioFlag    bool
		animFlag     bool
		idFlag       string
	)

	cmd := &cobra.Command{
		Use:   "process <media-file>",
		Short: "Compress a local media file and place the result in the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}
			if !fileutil.Exists(source) {
				return fmt.Errorf("source file %s does not exist or is empty", source)
			}

			if missing, found := deps.MissingRequired(deps.Check(deps.Required(cfg))); found {
				return fmt.Errorf("missing dependency %s: %s", missing.Name, missing.Detail)
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "squeeze.log")},
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer st.Close()

			runner := ffmpeg.NewCLI(
				ffmpeg.WithBinary(cfg.Encoder.FFmpegBinary),
				ffmpeg.WithTimeout(time.Duration(cfg.Encoder.TimeoutSeconds)*time.Second),
			)
			transport := &localTransport{outputDir: cfg.Paths.OutputDir}
			sink := &consoleSink{out: cmd.OutOrStdout()}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Probe the input to pick the right pipeline when the caller
			// did not force one. A failed probe falls back to the video
			// path, which handles the common case.
			if !audioFlag && !animFlag {
				if result, probeErr := ffprobe.Inspect(ctx, cfg.Encoder.FFprobeBinary, source); probeErr == nil {
					if _, hasVideo := result.VideoStream(); !hasVideo {
						audioFlag = true
					} else if result.AudioStreamCount() == 0 {
						animFlag = true
					}
				} else {
					logger.Warn("input probe failed", logging.Error(probeErr))
				}
			}

			orch := orchestrator.New(cfg, transport, runner, sink, st, logger)
			ok := orch.Process(ctx, orchestrator.Request{
				ID:        idFlag,
				SourceRef: source,
				Strategy:  strategyFlag,
				Audio:     audioFlag,
				Animation: animFlag,
			})
			if !ok {
				return fmt.Errorf("processing %s failed", filepath.Base(source))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "compress", "Quality strategy identifier")
	cmd.Flags().BoolVar(&audioFlag, "audio", false, "Export the audio track only")
	cmd.Flags().BoolVar(&animFlag, "animation", false, "Re-container without recoding (audio-less clips)")
	cmd.Flags().StringVar(&idFlag, "id", "", "Job identifier for duplicate detection")
	return cmd
}
