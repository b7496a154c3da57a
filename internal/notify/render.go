package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"squeeze/internal/progress"
)

const barWidth = 10

// renderBar draws a fixed-width block bar for the given percent.
func renderBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// renderETA estimates time remaining from the observed transfer rate.
// Before the first byte arrives there is no rate to project from.
func renderETA(sample progress.Sample) string {
	if sample.Current <= 0 || sample.Elapsed <= 0 {
		return "calculating"
	}
	rate := sample.Current / sample.Elapsed.Seconds()
	if rate <= 0 || sample.Total <= sample.Current {
		return "0s"
	}
	remaining := time.Duration((sample.Total-sample.Current)/rate*1000) * time.Millisecond
	return remaining.Round(time.Second).String()
}

func renderProgress(verb, title string, sample progress.Sample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", verb, title)
	fmt.Fprintf(&b, "%s %.1f%%", renderBar(sample.Percent), sample.Percent)
	if sample.Estimated {
		b.WriteString(" (estimated)")
	}
	if sample.Total > 0 {
		fmt.Fprintf(&b, "\n%s / %s",
			humanize.Bytes(uint64(sample.Current)),
			humanize.Bytes(uint64(sample.Total)))
	}
	fmt.Fprintf(&b, "\nETA: %s", renderETA(sample))
	return b.String()
}

// Stats summarizes a completed job for the final status message.
type Stats struct {
	Title           string
	OriginalBytes   int64
	CompressedBytes int64
	Duration        time.Duration
}

// ReductionPercent reports how much smaller the compressed file is.
func (s Stats) ReductionPercent() float64 {
	if s.OriginalBytes <= 0 {
		return 0
	}
	return (1 - float64(s.CompressedBytes)/float64(s.OriginalBytes)) * 100
}

func renderSuccess(stats Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Done: %s\n", stats.Title)
	fmt.Fprintf(&b, "%s → %s (%.1f%% smaller)\n",
		humanize.Bytes(uint64(stats.OriginalBytes)),
		humanize.Bytes(uint64(stats.CompressedBytes)),
		stats.ReductionPercent())
	fmt.Fprintf(&b, "Took %s", stats.Duration.Round(time.Second))
	return b.String()
}

func renderFailure(title, hint string) string {
	if hint == "" {
		hint = "processing failed"
	}
	return fmt.Sprintf("Failed: %s\n%s", title, hint)
}
