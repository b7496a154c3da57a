// Package deps verifies the external binaries squeeze shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"squeeze/internal/config"
)

// Requirement defines an external dependency squeeze relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Required lists the binaries the configured pipeline will invoke.
func Required(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Encoder.FFmpegBinary,
			Description: "media encoder; every compression path runs through it",
		},
		{
			Name:        "ffprobe",
			Command:     cfg.Encoder.FFprobeBinary,
			Description: "media inspector used to classify inputs",
			Optional:    true,
		},
	}
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		case lookPathErr(req.Command) != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the first unavailable non-optional status, if any.
func MissingRequired(statuses []Status) (Status, bool) {
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			return status, true
		}
	}
	return Status{}, false
}

func lookPathErr(command string) error {
	_, err := exec.LookPath(command)
	return err
}
