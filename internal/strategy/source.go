package strategy

import (
	"fmt"

	"squeeze/internal/services"
)

// SourceStrategy selects the format for externally sourced video before it
// enters the compression pipeline. The selectors follow yt-dlp syntax, which
// is what the external source downloader consumes.
type SourceStrategy int

const (
	// BestQuality downloads the highest quality available.
	BestQuality SourceStrategy = iota
	// OptimalQuality caps resolution at 1080p for a balanced download.
	OptimalQuality
	// EfficientQuality caps resolution at 720p for a smaller download.
	EfficientQuality
	// AudioOnly extracts the audio track as mp3.
	AudioOnly
)

// SelectSource maps a caller-supplied identifier to a SourceStrategy. The
// empty identifier falls back to OptimalQuality; legacy callers predate the
// selection keyboard and never send one. Any other unrecognized identifier
// is an error.
func SelectSource(id string) (SourceStrategy, error) {
	switch id {
	case "":
		return OptimalQuality, nil
	case "best":
		return BestQuality, nil
	case "optimal":
		return OptimalQuality, nil
	case "efficient":
		return EfficientQuality, nil
	case "audio":
		return AudioOnly, nil
	default:
		return 0, services.Wrap(services.ErrInvalidStrategy, "", "select source strategy", fmt.Sprintf("unrecognized identifier %q", id), nil)
	}
}

// ID returns the caller-facing identifier.
func (s SourceStrategy) ID() string {
	switch s {
	case BestQuality:
		return "best"
	case OptimalQuality:
		return "optimal"
	case EfficientQuality:
		return "efficient"
	case AudioOnly:
		return "audio"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// FormatSelector returns the yt-dlp format expression for the strategy.
func (s SourceStrategy) FormatSelector() string {
	switch s {
	case BestQuality:
		return "best[ext=mp4]/best"
	case EfficientQuality:
		return "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best[ext=mp4]"
	case AudioOnly:
		return "bestaudio[ext=m4a]/bestaudio/best"
	default:
		return "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
}

// Description returns the user-facing label.
func (s SourceStrategy) Description() string {
	switch s {
	case BestQuality:
		return "Best quality (largest download)"
	case EfficientQuality:
		return "Efficient quality (smaller download)"
	case AudioOnly:
		return "Audio only (mp3)"
	default:
		return "Optimal quality (balanced)"
	}
}

// AllSources returns the source strategies in presentation order.
func AllSources() []SourceStrategy {
	return []SourceStrategy{BestQuality, OptimalQuality, EfficientQuality, AudioOnly}
}
