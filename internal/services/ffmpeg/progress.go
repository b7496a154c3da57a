package ffmpeg

import (
	"strconv"
	"strings"
)

// scanStatusLines splits on both newlines and carriage returns: ffmpeg
// rewrites its status line in place with bare \r, so a newline-only scanner
// would see one giant line and no intermediate progress.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseDuration extracts the total stream duration from the banner line
// "Duration: 00:01:23.45, start: ...". Returns seconds.
func parseDuration(line string) (float64, bool) {
	idx := strings.Index(line, "Duration:")
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(line[idx+len("Duration:"):])
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		rest = rest[:comma]
	}
	return parseClock(strings.TrimSpace(rest))
}

// parseTimeOffset extracts the current position from a status line such as
// "frame= 240 fps= 24 ... time=00:00:10.00 bitrate= ...". Returns seconds.
func parseTimeOffset(line string) (float64, bool) {
	idx := strings.Index(line, "time=")
	if idx < 0 {
		return 0, false
	}
	rest := line[idx+len("time="):]
	if space := strings.IndexByte(rest, ' '); space >= 0 {
		rest = rest[:space]
	}
	return parseClock(strings.TrimSpace(rest))
}

// parseClock converts "HH:MM:SS.cc" to seconds. ffmpeg emits "N/A" before
// the first frame is produced.
func parseClock(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	total := hours*3600 + minutes*60 + seconds
	if total < 0 {
		return 0, false
	}
	return total, true
}
