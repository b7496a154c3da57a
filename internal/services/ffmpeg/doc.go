// Package ffmpeg wraps the ffmpeg command-line encoder.
//
// The client builds argument vectors for the fixed output profiles, runs the
// encoder in its own process group under a mandatory timeout, and derives
// percent progress by parsing the Duration/time markers ffmpeg writes to its
// diagnostic stream. A non-zero exit surfaces as *EncodeError carrying the
// captured diagnostic tail so callers can show the real cause, not just an
// exit code.
package ffmpeg
