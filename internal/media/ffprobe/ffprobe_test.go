package ffprobe_test

import (
	"testing"

	"squeeze/internal/media/ffprobe"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "sample_rate": "48000"}
  ],
  "format": {
    "filename": "clip.mp4",
    "nb_streams": 2,
    "duration": "93.480000",
    "size": "52428800",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestParseExtractsStreamsAndFormat(t *testing.T) {
	result, err := ffprobe.Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 93.48 {
		t.Fatalf("duration = %f", got)
	}
	stream, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected video stream")
	}
	if stream.Width != 1920 || stream.Height != 1080 {
		t.Fatalf("unexpected dimensions %dx%d", stream.Width, stream.Height)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("audio stream count = %d", result.AudioStreamCount())
	}
	if !result.Landscape() {
		t.Fatal("1920x1080 should be landscape")
	}
}

func TestLandscapeForPortraitAndMissingVideo(t *testing.T) {
	portrait := `{"streams":[{"codec_type":"video","width":360,"height":640}],"format":{}}`
	result, err := ffprobe.Parse([]byte(portrait))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Landscape() {
		t.Fatal("360x640 reported landscape")
	}

	audioOnly := `{"streams":[{"codec_type":"audio","channels":2}],"format":{"duration":"10"}}`
	result, err = ffprobe.Parse([]byte(audioOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Landscape() {
		t.Fatal("audio-only input reported landscape")
	}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("audio-only input reported a video stream")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ffprobe.Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
