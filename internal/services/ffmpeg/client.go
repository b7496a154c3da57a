package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"squeeze/internal/services"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures a percent step derived from the encoder's
// diagnostic stream.
type ProgressUpdate struct {
	Percent float64
	Elapsed time.Duration
}

// Runner defines encoder execution behaviour.
type Runner interface {
	Run(ctx context.Context, args []string, progress func(ProgressUpdate)) error
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout sets the per-run wall-clock limit. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI runner using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", timeout: 30 * time.Minute}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// EncodeError reports a non-zero encoder exit together with the tail of the
// diagnostic stream, which carries ffmpeg's actual reason for failing.
type EncodeError struct {
	ExitCode   int
	Diagnostic string
}

func (e *EncodeError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("encoder exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder exited with status %d: %s", e.ExitCode, e.Diagnostic)
}

func (e *EncodeError) Unwrap() error {
	return services.ErrEncode
}

// diagnosticTailLines bounds how much stderr is retained for error reports.
const diagnosticTailLines = 20

// Run executes the encoder with the given argument vector. The process runs
// in its own group so cancellation and timeout kill orphaned child helpers
// along with ffmpeg itself.
func (c *CLI) Run(ctx context.Context, args []string, progress func(ProgressUpdate)) error {
	if len(args) == 0 {
		return errors.New("encoder arguments required")
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := commandContext(runCtx, c.binary, args...) //nolint:gosec
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return services.Wrap(services.ErrInternal, "compress", "run", "stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrInternal, "compress", "run", "start encoder", err)
	}
	started := time.Now()

	var (
		total float64
		tail  []string
	)
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanStatusLines)
	for scanner.Scan() {
		line := scanner.Text()
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			tail = append(tail, trimmed)
			if len(tail) > diagnosticTailLines {
				tail = tail[1:]
			}
		}
		if total <= 0 {
			if d, ok := parseDuration(line); ok {
				total = d
				continue
			}
		}
		if total <= 0 || progress == nil {
			continue
		}
		if cur, ok := parseTimeOffset(line); ok {
			percent := cur / total * 100
			if percent > 100 {
				percent = 100
			}
			progress(ProgressUpdate{Percent: percent, Elapsed: time.Since(started)})
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return services.Wrap(services.ErrEncode, "compress", "run", "encoder timed out", runCtx.Err())
		case runCtx.Err() != nil:
			return services.Wrap(services.ErrEncode, "compress", "run", "encoder canceled", runCtx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &EncodeError{ExitCode: exitErr.ExitCode(), Diagnostic: strings.Join(tail, "\n")}
		}
		return services.Wrap(services.ErrEncode, "compress", "run", "encoder failed", err)
	}
	if scanErr != nil {
		return services.Wrap(services.ErrInternal, "compress", "run", "read encoder output", scanErr)
	}
	return nil
}

var _ Runner = (*CLI)(nil)
