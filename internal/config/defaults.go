package config

const (
	defaultWorkDir   = "~/.local/share/squeeze/work"
	defaultOutputDir = "~/.local/share/squeeze/out"
	defaultLogDir    = "~/.local/share/squeeze/logs"

	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultEncodeTimeout  = 1800
	defaultVideoFPS       = 24
	defaultVideoCodec     = "libx265"
	defaultVideoPixFmt    = "yuv420p"
	defaultVideoProfile   = "main"
	defaultAudioCodec     = "aac"
	defaultAudioBitrate   = "64k"
	defaultAudioChannels  = 1
	defaultAudioRate      = 44100
	defaultAudioOnlyRate  = "32k"
	defaultTrackerEntries = 10000
	defaultTrackerTTL     = 86400
	defaultPendingTTL     = 900
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Encoder: Encoder{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			TimeoutSeconds:   defaultEncodeTimeout,
			VideoFPS:         defaultVideoFPS,
			VideoCodec:       defaultVideoCodec,
			VideoPixelFormat: defaultVideoPixFmt,
			VideoProfile:     defaultVideoProfile,
			AudioCodec:       defaultAudioCodec,
			AudioBitrate:     defaultAudioBitrate,
			AudioChannels:    defaultAudioChannels,
			AudioSampleRate:  defaultAudioRate,
			AudioOnlyBitrate: defaultAudioOnlyRate,
		},
		Tracker: Tracker{
			MaxEntries: defaultTrackerEntries,
			TTLSeconds: defaultTrackerTTL,
		},
		Pending: Pending{
			TTLSeconds: defaultPendingTTL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
