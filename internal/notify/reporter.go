package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"squeeze/internal/logging"
	"squeeze/internal/progress"
)

// Phase names the pipeline step a progress update belongs to. Each phase
// carries its own throttle profile: transfers move fast enough to justify
// tighter updates, encodes do not.
type Phase int

const (
	PhaseDownload Phase = iota
	PhaseCompress
	PhaseUpload
)

func (p Phase) verb() string {
	switch p {
	case PhaseDownload:
		return "Downloading"
	case PhaseCompress:
		return "Compressing"
	case PhaseUpload:
		return "Sending"
	default:
		return "Processing"
	}
}

func (p Phase) throttle() (minElapsed time.Duration, percentFloor float64) {
	if p == PhaseUpload {
		return 2 * time.Second, 2
	}
	return 5 * time.Second, 5
}

// minUpdateGap is the floor between two accepted updates within the same
// phase, protecting the surface from edit-rate limits. Phase transitions are
// exempt: stage notifications must always go out in order.
const minUpdateGap = time.Second

var timeNow = time.Now

// Reporter owns the single status message of one job. All methods are
// safe for concurrent use and never return delivery errors to the caller.
type Reporter struct {
	sink   Sink
	logger *slog.Logger

	mu         sync.Mutex
	title      string
	messageID  string
	lastText   string
	lastAccept time.Time
	phaseStart time.Time
	phase      Phase
	phaseSet   bool
}

// NewReporter constructs a reporter over the given sink.
func NewReporter(sink Sink, title string, logger *slog.Logger) *Reporter {
	if sink == nil {
		sink = Noop{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reporter{sink: sink, title: title, logger: logger}
}

// Progress publishes a throttled progress update for the given phase. The
// first update of a phase is the stage notification and is never throttled;
// within a phase, updates are acted on once elapsed time since the phase
// started passes the phase threshold, the percent clears the phase floor,
// and at least a second has passed since the last accepted update.
func (r *Reporter) Progress(ctx context.Context, phase Phase, sample progress.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := timeNow()
	if r.phaseSet && phase == r.phase {
		minElapsed, percentFloor := phase.throttle()
		if now.Sub(r.phaseStart) < minElapsed {
			return
		}
		if sample.Percent <= percentFloor {
			return
		}
		if now.Sub(r.lastAccept) < minUpdateGap {
			return
		}
	}

	text := renderProgress(phase.verb(), r.title, sample)
	if r.deliver(ctx, text) {
		if !r.phaseSet || phase != r.phase {
			r.phase = phase
			r.phaseSet = true
			r.phaseStart = now
		}
		r.lastAccept = now
	}
}

// Success publishes the final statistics message. Never throttled.
func (r *Reporter) Success(ctx context.Context, stats Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliver(ctx, renderSuccess(stats))
}

// Failure publishes a terminal error message. Never throttled.
func (r *Reporter) Failure(ctx context.Context, hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliver(ctx, renderFailure(r.title, hint))
}

// deliver edits the status message in place, creating it on first use and
// starting a fresh message when the surface rejects the text for size.
// Identical text is suppressed locally. Returns whether the text is now on
// the surface. Callers hold r.mu.
func (r *Reporter) deliver(ctx context.Context, text string) bool {
	if text == r.lastText {
		return true
	}

	if r.messageID == "" {
		id, err := r.sink.Post(ctx, text)
		if err != nil {
			r.logger.Warn("status message post failed", logging.Error(err))
			return false
		}
		r.messageID = id
		r.lastText = text
		return true
	}

	err := r.sink.Edit(ctx, r.messageID, text)
	switch {
	case err == nil, errors.Is(err, ErrNotModified):
		r.lastText = text
		return true
	case errors.Is(err, ErrMessageTooLong):
		id, postErr := r.sink.Post(ctx, text)
		if postErr != nil {
			r.logger.Warn("status message post failed", logging.Error(postErr))
			return false
		}
		r.messageID = id
		r.lastText = text
		return true
	default:
		r.logger.Warn("status message edit failed", logging.Error(err))
		return false
	}
}
