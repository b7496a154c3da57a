package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeBounds()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Store.Path != "" {
		if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
			return fmt.Errorf("store.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	if strings.TrimSpace(c.Encoder.FFmpegBinary) == "" {
		c.Encoder.FFmpegBinary = defaultFFmpegBinary
	}
	if value, ok := os.LookupEnv("SQUEEZE_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Encoder.FFmpegBinary = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Encoder.FFprobeBinary) == "" {
		c.Encoder.FFprobeBinary = defaultFFprobeBinary
	}
	if value, ok := os.LookupEnv("SQUEEZE_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Encoder.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.Encoder.TimeoutSeconds <= 0 {
		c.Encoder.TimeoutSeconds = defaultEncodeTimeout
	}
	if c.Encoder.VideoFPS <= 0 {
		c.Encoder.VideoFPS = defaultVideoFPS
	}
	if strings.TrimSpace(c.Encoder.VideoCodec) == "" {
		c.Encoder.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Encoder.VideoPixelFormat) == "" {
		c.Encoder.VideoPixelFormat = defaultVideoPixFmt
	}
	if strings.TrimSpace(c.Encoder.VideoProfile) == "" {
		c.Encoder.VideoProfile = defaultVideoProfile
	}
	if strings.TrimSpace(c.Encoder.AudioCodec) == "" {
		c.Encoder.AudioCodec = defaultAudioCodec
	}
	if strings.TrimSpace(c.Encoder.AudioBitrate) == "" {
		c.Encoder.AudioBitrate = defaultAudioBitrate
	}
	if c.Encoder.AudioChannels <= 0 {
		c.Encoder.AudioChannels = defaultAudioChannels
	}
	if c.Encoder.AudioSampleRate <= 0 {
		c.Encoder.AudioSampleRate = defaultAudioRate
	}
	if strings.TrimSpace(c.Encoder.AudioOnlyBitrate) == "" {
		c.Encoder.AudioOnlyBitrate = defaultAudioOnlyRate
	}
}

func (c *Config) normalizeBounds() {
	if c.Tracker.MaxEntries <= 0 {
		c.Tracker.MaxEntries = defaultTrackerEntries
	}
	if c.Tracker.TTLSeconds <= 0 {
		c.Tracker.TTLSeconds = defaultTrackerTTL
	}
	if c.Pending.TTLSeconds <= 0 {
		c.Pending.TTLSeconds = defaultPendingTTL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
