package ffmpeg

import (
	"fmt"

	"squeeze/internal/config"
	"squeeze/internal/strategy"
)

// scaleExpr preserves the source aspect ratio: landscape input targets
// width 640, portrait targets height 360, and -2 lets ffmpeg pick the other
// dimension rounded to an even integer, which the codec pipeline requires.
const scaleExpr = "scale='if(gt(iw,ih),640,-2):if(gt(iw,ih),-2,360)'"

// VideoArgs builds the full-recode argument vector for a video input.
func VideoArgs(enc config.Encoder, params strategy.Params, input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-vf", scaleExpr,
		"-r", fmt.Sprintf("%d", enc.VideoFPS),
		"-c:v", enc.VideoCodec,
		"-pix_fmt", enc.VideoPixelFormat,
		"-b:v", fmt.Sprintf("%dk", params.BitrateKbps),
		"-crf", fmt.Sprintf("%d", params.CRF),
		"-preset", params.Preset,
		"-c:a", enc.AudioCodec,
		"-b:a", enc.AudioBitrate,
		"-ac", fmt.Sprintf("%d", enc.AudioChannels),
		"-ar", fmt.Sprintf("%d", enc.AudioSampleRate),
		"-profile:v", enc.VideoProfile,
		"-map_metadata", "-1",
		output,
	}
}

// AnimationArgs builds the minimal re-container pass used for short,
// audio-less animation clips.
func AnimationArgs(input, output string) []string {
	return []string{"-y", "-i", input, output}
}

// AudioArgs builds the audio-only export: fixed channel count and sample
// rate, mp3 at the configured bitrate, metadata stripped.
func AudioArgs(enc config.Encoder, input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-vn",
		"-ac", fmt.Sprintf("%d", enc.AudioChannels),
		"-ar", fmt.Sprintf("%d", enc.AudioSampleRate),
		"-c:a", "libmp3lame",
		"-b:a", enc.AudioOnlyBitrate,
		"-map_metadata", "-1",
		output,
	}
}
