// Package orchestrator sequences one compression job end to end: download,
// backup, encode, verify, deliver, cleanup. Every failure after intake is
// absorbed here and converted into an error notification plus a best-effort
// rollback delivery of the untouched original. Process never lets a stage
// error escape to the caller.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"squeeze/internal/compress"
	"squeeze/internal/config"
	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/notify"
	"squeeze/internal/progress"
	"squeeze/internal/services"
	"squeeze/internal/services/ffmpeg"
	"squeeze/internal/store"
	"squeeze/internal/strategy"
	"squeeze/internal/textutil"
)

// minEstimateSeconds floors the encode estimate so tiny files still show a
// believable countdown instead of an instant 100%.
const minEstimateSeconds = 10

// lockRetryDelay paces staging-lock acquisition attempts.
const lockRetryDelay = 100 * time.Millisecond

// Orchestrator runs compression jobs. Safe for concurrent use; jobs share
// nothing but the store-backed idempotency tracker and the staging lock.
type Orchestrator struct {
	cfg       *config.Config
	transport MediaTransport
	runner    ffmpeg.Runner
	sink      notify.Sink
	store     *store.Store
	logger    *slog.Logger
	lockPath  string
}

// New constructs an orchestrator over the given collaborators.
func New(cfg *config.Config, transport MediaTransport, runner ffmpeg.Runner, sink notify.Sink, st *store.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if sink == nil {
		sink = notify.Noop{}
	}
	return &Orchestrator{
		cfg:       cfg,
		transport: transport,
		runner:    runner,
		sink:      sink,
		store:     st,
		logger:    logging.NewComponentLogger(logger, "orchestrator"),
		lockPath:  filepath.Join(cfg.Paths.WorkDir, ".squeeze.lock"),
	}
}

// Process runs one job to completion. It returns true when the caller ended
// up with a usable file: a fresh compression, a duplicate short-circuit, or
// nothing left to do. It returns false when the job failed and at best the
// rollback delivery stood in for the result.
func (o *Orchestrator) Process(ctx context.Context, req Request) bool {
	log := o.logger
	if req.ID != "" {
		log = log.With(logging.String(logging.FieldJobID, req.ID))
	}

	// Strategy selection happens before any file or process is touched so
	// an unknown identifier can never reach the encoder.
	strat, err := strategy.Select(req.Strategy)
	if err != nil {
		log.Error("strategy selection failed", logging.Error(err))
		notify.NewReporter(o.sink, textutil.DeriveTitle(req.SourceRef), log).
			Failure(ctx, err.Error())
		return false
	}

	if req.ID != "" {
		seen, trackErr := o.store.IsProcessed(ctx, req.ID)
		if trackErr != nil {
			log.Warn("idempotency check failed", logging.Error(trackErr))
		}
		if seen {
			log.Info("duplicate job ignored")
			return true
		}
		if markErr := o.store.MarkProcessed(ctx, req.ID); markErr != nil {
			log.Warn("idempotency mark failed", logging.Error(markErr))
		}
	}

	title := textutil.DeriveTitle(req.SourceRef)
	job := store.NewJob(req.SourceRef, title, strat.ID(), StagePending.String())
	if req.ID != "" {
		job.ID = req.ID
	}
	if err := o.store.InsertJob(ctx, job); err != nil {
		log.Warn("job record insert failed", logging.Error(err))
	}

	reporter := notify.NewReporter(o.sink, title, log)
	run := &jobRun{
		orch:     o,
		ctx:      ctx,
		req:      req,
		job:      job,
		strat:    strat,
		reporter: reporter,
		log:      log,
	}
	return run.execute()
}

// jobRun carries the mutable state of one Process call.
type jobRun struct {
	orch     *Orchestrator
	ctx      context.Context
	req      Request
	job      *store.Job
	strat    strategy.Strategy
	reporter *notify.Reporter
	log      *slog.Logger
	lock     *flock.Flock

	artifacts  []string
	backupPath string
	clamp      progress.Monotone
}

func (r *jobRun) execute() (ok bool) {
	// Cleanup runs on every exit path, success and failure alike.
	defer func() {
		fileutil.Cleanup(r.artifacts...)
	}()

	o := r.orch
	if err := fileutil.EnsureDir(o.cfg.Paths.WorkDir); err != nil {
		return r.rollback(services.Wrap(services.ErrInternal, "intake", "workdir", "create staging directory", err))
	}

	// The staging lock keeps a second process out of the same work dir.
	if err := r.withStageLock(); err != nil {
		return r.rollback(err)
	}
	defer r.unlockStage()

	r.setStage(StageDownloading)
	r.reporter.Progress(r.ctx, notify.PhaseDownload, progress.Sample{})
	localPath, err := o.transport.Download(r.ctx, r.req.SourceRef, o.cfg.Paths.WorkDir)
	if err != nil {
		return r.rollback(services.Wrap(services.ErrDownload, "download", "fetch", r.req.SourceRef, err))
	}
	r.artifacts = append(r.artifacts, localPath)
	r.job.OriginalBytes = fileutil.SizeBytes(localPath)

	// Backup failure shrinks the safety net but does not fail the job.
	backupPath, backupErr := fileutil.CreateBackup(localPath)
	if backupErr != nil {
		r.log.Warn("backup creation failed, continuing without rollback file",
			logging.Error(services.Wrap(services.ErrBackup, "backup", "copy", localPath, backupErr)))
	} else {
		r.backupPath = backupPath
		r.artifacts = append(r.artifacts, backupPath)
		r.setStage(StageBackedUp)
	}

	compressor := r.compressor()
	outputPath := fileutil.UniqueSibling(localPath, compressor.OutputSuffix())
	r.artifacts = append(r.artifacts, outputPath)

	estimate := float64(minEstimateSeconds)
	if scaled := fileutil.SizeMB(localPath) * r.strat.EstimatedSecondsPerMB(); scaled > estimate {
		estimate = scaled
	}

	r.setStage(StageCompressing)
	result, err := compressor.Compress(r.ctx, compress.Request{
		InputPath:        localPath,
		OutputPath:       outputPath,
		EstimatedSeconds: estimate,
	}, r.onProgress)
	if err != nil {
		return r.rollback(err)
	}

	r.setStage(StageVerifying)
	if !fileutil.Exists(result.OutputPath) {
		return r.rollback(services.Wrap(services.ErrEmptyOutput, "verify", "output", result.OutputPath, nil))
	}
	r.job.CompressedBytes = fileutil.SizeBytes(result.OutputPath)

	r.setStage(StageSending)
	r.reporter.Progress(r.ctx, notify.PhaseUpload, progress.Sample{Total: float64(r.job.CompressedBytes)})
	if err := o.transport.Upload(r.ctx, result.OutputPath, r.uploadKind()); err != nil {
		return r.rollback(services.Wrap(services.ErrDelivery, "send", "upload", result.OutputPath, err))
	}

	r.reporter.Success(r.ctx, notify.Stats{
		Title:           r.job.Title,
		OriginalBytes:   r.job.OriginalBytes,
		CompressedBytes: r.job.CompressedBytes,
		Duration:        result.Duration,
	})
	r.setStage(StageCompleted)
	r.log.Info("job completed",
		logging.Int64("original_bytes", r.job.OriginalBytes),
		logging.Int64("compressed_bytes", r.job.CompressedBytes),
		logging.Duration("duration", result.Duration))
	return true
}

func (r *jobRun) compressor() compress.Compressor {
	enc := r.orch.cfg.Encoder
	if r.req.Audio {
		return compress.NewAudio(r.orch.runner, enc, r.log)
	}
	return compress.NewVideo(r.orch.runner, enc, r.strat.Params(), r.req.Animation, r.log)
}

func (r *jobRun) uploadKind() UploadKind {
	if r.req.Audio {
		return UploadAudio
	}
	return UploadVideo
}

func (r *jobRun) onProgress(sample progress.Sample) {
	sample = r.clamp.Clamp(sample)
	r.reporter.Progress(r.ctx, notify.PhaseCompress, sample)
	r.job.ProgressStage = StageCompressing.String()
	r.job.ProgressPercent = sample.Percent
	if err := r.orch.store.UpdateJob(r.ctx, r.job); err != nil {
		r.log.Debug("progress persistence failed", logging.Error(err))
	}
}

// rollback records the failure, tells the caller why, and hands back the
// untouched original when a backup exists. Always returns false.
func (r *jobRun) rollback(cause error) bool {
	r.log.Error("job failed", logging.Error(cause))
	r.job.Stage = StageRolledBack.String()
	r.job.ErrorMessage = cause.Error()
	if err := r.orch.store.UpdateJob(r.ctx, r.job); err != nil {
		r.log.Warn("job record update failed", logging.Error(err))
	}

	r.reporter.Failure(r.ctx, failureHint(cause))

	if r.backupPath != "" && fileutil.Exists(r.backupPath) {
		if err := r.orch.transport.Upload(r.ctx, r.backupPath, UploadDocument); err != nil {
			r.log.Warn("rollback delivery failed", logging.Error(err))
		} else {
			r.log.Info("original delivered after failure", logging.String("backup", r.backupPath))
		}
		// One attempt only; the cleanup pass removes the backup either way.
		r.backupPath = ""
	}
	return false
}

// failureHint prefers the encoder's own diagnostic text over our wrapping
// so the caller sees the real cause.
func failureHint(cause error) string {
	var encodeErr *ffmpeg.EncodeError
	if errors.As(cause, &encodeErr) && encodeErr.Diagnostic != "" {
		return fmt.Sprintf("encoder failed: %s", encodeErr.Diagnostic)
	}
	return cause.Error()
}

func (r *jobRun) setStage(stage Stage) {
	r.job.Stage = stage.String()
	if err := r.orch.store.UpdateJob(r.ctx, r.job); err != nil {
		r.log.Warn("stage update failed",
			logging.String(logging.FieldStage, stage.String()),
			logging.Error(err))
	}
}

// withStageLock takes the staging lock on a file handle owned by this run.
// flock(2) tracks ownership per open file description, so every run must
// open the lock file itself; a handle shared between runs would let them
// all through.
func (r *jobRun) withStageLock() error {
	r.lock = flock.New(r.orch.lockPath)
	locked, err := r.lock.TryLockContext(r.ctx, lockRetryDelay)
	if err != nil {
		return services.Wrap(services.ErrInternal, "intake", "lock", "acquire staging lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrInternal, "intake", "lock", "staging lock unavailable", nil)
	}
	return nil
}

func (r *jobRun) unlockStage() {
	if err := r.lock.Unlock(); err != nil {
		r.log.Warn("staging lock release failed", logging.Error(err))
	}
}
