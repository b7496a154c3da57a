package orchestrator

import "context"

// Stage tracks a job through its lifecycle. Stages only move forward;
// RolledBack absorbs every failure after intake.
type Stage int

const (
	StagePending Stage = iota
	StageDownloading
	StageBackedUp
	StageCompressing
	StageVerifying
	StageSending
	StageCompleted
	StageRolledBack
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageDownloading:
		return "downloading"
	case StageBackedUp:
		return "backed-up"
	case StageCompressing:
		return "compressing"
	case StageVerifying:
		return "verifying"
	case StageSending:
		return "sending"
	case StageCompleted:
		return "completed"
	case StageRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Request describes one compression job submission.
type Request struct {
	// ID is the caller's job identifier, used for the idempotency guard.
	// Empty IDs get a generated one and skip duplicate detection.
	ID        string
	SourceRef string
	// Strategy is the quality strategy identifier.
	Strategy string
	// Audio selects the audio-only export path.
	Audio bool
	// Animation selects the bare re-container pass for audio-less clips.
	Animation bool
}

// UploadKind tells the transport how to present the delivered file.
type UploadKind int

const (
	UploadDocument UploadKind = iota
	UploadVideo
	UploadAudio
)

// MediaTransport moves files between the caller's surface and local disk.
// Implementations are supplied by the front end; the orchestrator knows
// nothing about the protocol behind them.
type MediaTransport interface {
	// Download fetches the referenced media into dir and returns its
	// local path.
	Download(ctx context.Context, ref, dir string) (string, error)
	// Upload delivers a local file back to the caller.
	Upload(ctx context.Context, path string, kind UploadKind) error
}
