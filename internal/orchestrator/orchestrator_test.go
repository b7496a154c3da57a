package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"squeeze/internal/config"
	"squeeze/internal/services"
	"squeeze/internal/services/ffmpeg"
	"squeeze/internal/store"
	"squeeze/internal/testsupport"
)

type fakeTransport struct {
	mu          sync.Mutex
	sourceSize  int64
	downloadErr error
	uploadErr   error
	uploads     []string
	uploadKinds []UploadKind
}

func (f *fakeTransport) Download(_ context.Context, ref, dir string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	path := filepath.Join(dir, filepath.Base(ref))
	size := f.sourceSize
	if size <= 0 {
		size = 1024
	}
	data := make([]byte, size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeTransport) Upload(_ context.Context, path string, kind UploadKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil && kind != UploadDocument {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, path)
	f.uploadKinds = append(f.uploadKinds, kind)
	return nil
}

func (f *fakeTransport) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

// fakeEncoder writes the output file named by the final argument, or fails.
// When started and release are set, Run signals entry and blocks until
// released so tests can hold a job mid-encode.
type fakeEncoder struct {
	err        error
	outputSize int64
	updates    []ffmpeg.ProgressUpdate
	started    chan struct{}
	release    chan struct{}
}

func (f *fakeEncoder) Run(_ context.Context, args []string, onProgress func(ffmpeg.ProgressUpdate)) error {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	for _, update := range f.updates {
		if onProgress != nil {
			onProgress(update)
		}
	}
	if f.err != nil {
		return f.err
	}
	data := make([]byte, f.outputSize)
	return os.WriteFile(args[len(args)-1], data, 0o644)
}

type captureSink struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureSink) Post(_ context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, text)
	return "msg-1", nil
}

func (c *captureSink) Edit(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, text)
	return nil
}

func (c *captureSink) all() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.messages, "\n---\n")
}

type fixture struct {
	cfg       *config.Config
	store     *store.Store
	transport *fakeTransport
	encoder   *fakeEncoder
	sink      *captureSink
	orch      *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	transport := &fakeTransport{}
	encoder := &fakeEncoder{outputSize: 512}
	sink := &captureSink{}
	return &fixture{
		cfg:       cfg,
		store:     st,
		transport: transport,
		encoder:   encoder,
		sink:      sink,
		orch:      New(cfg, transport, encoder, sink, st, nil),
	}
}

func workDirEntries(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read work dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Name() == ".squeeze.lock" {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func TestProcessSuccessDeliversCompressedFile(t *testing.T) {
	f := newFixture(t)
	f.transport.sourceSize = 50 * 1024 * 1024
	f.encoder.outputSize = 20 * 1024 * 1024
	f.encoder.updates = []ffmpeg.ProgressUpdate{{Percent: 30}, {Percent: 70}, {Percent: 100}}

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-1",
		SourceRef: "holiday_clip.mp4",
		Strategy:  "compress",
	})
	if !ok {
		t.Fatal("expected Process to succeed")
	}

	uploads := f.transport.uploaded()
	if len(uploads) != 1 {
		t.Fatalf("expected exactly one delivery, got %v", uploads)
	}
	if f.transport.uploadKinds[0] != UploadVideo {
		t.Fatalf("expected video delivery, got kind %v", f.transport.uploadKinds[0])
	}

	messages := f.sink.all()
	if !strings.Contains(messages, "Done: Holiday Clip") {
		t.Fatalf("expected success message, got:\n%s", messages)
	}
	if !strings.Contains(messages, "60.0% smaller") {
		t.Fatalf("expected reduction statistic, got:\n%s", messages)
	}

	if remaining := workDirEntries(t, f.cfg); len(remaining) != 0 {
		t.Fatalf("expected staging cleanup on success, found %v", remaining)
	}

	job, err := f.store.GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if job.Stage != StageCompleted.String() {
		t.Fatalf("expected completed stage, got %q", job.Stage)
	}
}

func TestProcessEncoderFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.encoder.err = &ffmpeg.EncodeError{ExitCode: 1, Diagnostic: "invalid codec parameters"}

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-2",
		SourceRef: "broken.mp4",
		Strategy:  "compress",
	})
	if ok {
		t.Fatal("expected Process to fail")
	}

	if !strings.Contains(f.sink.all(), "invalid codec parameters") {
		t.Fatalf("expected encoder diagnostic in error message, got:\n%s", f.sink.all())
	}

	uploads := f.transport.uploaded()
	if len(uploads) != 1 {
		t.Fatalf("expected exactly one rollback delivery, got %v", uploads)
	}
	if !strings.HasSuffix(uploads[0], ".backup") {
		t.Fatalf("expected backup delivery, got %q", uploads[0])
	}
	if f.transport.uploadKinds[0] != UploadDocument {
		t.Fatalf("expected document delivery for rollback, got %v", f.transport.uploadKinds[0])
	}

	if remaining := workDirEntries(t, f.cfg); len(remaining) != 0 {
		t.Fatalf("expected staging cleanup on failure, found %v", remaining)
	}

	job, err := f.store.GetJob(context.Background(), "job-2")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if job.Stage != StageRolledBack.String() {
		t.Fatalf("expected rolled-back stage, got %q", job.Stage)
	}
}

func TestProcessZeroByteOutputIsFailure(t *testing.T) {
	f := newFixture(t)
	f.encoder.outputSize = 0

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-3",
		SourceRef: "clip.mp4",
		Strategy:  "compress",
	})
	if ok {
		t.Fatal("expected zero-byte output to fail the job")
	}

	uploads := f.transport.uploaded()
	if len(uploads) != 1 || !strings.HasSuffix(uploads[0], ".backup") {
		t.Fatalf("expected rollback delivery of the backup, got %v", uploads)
	}
	if remaining := workDirEntries(t, f.cfg); len(remaining) != 0 {
		t.Fatalf("expected staging cleanup, found %v", remaining)
	}
}

func TestProcessUnknownStrategyFailsBeforeAnyWork(t *testing.T) {
	f := newFixture(t)

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-4",
		SourceRef: "clip.mp4",
		Strategy:  "ultra",
	})
	if ok {
		t.Fatal("expected unknown strategy to fail")
	}

	if len(f.transport.uploaded()) != 0 {
		t.Fatal("no transport call may happen before strategy selection")
	}
	if remaining := workDirEntries(t, f.cfg); len(remaining) != 0 {
		t.Fatalf("no staging file may exist, found %v", remaining)
	}
	if !strings.Contains(f.sink.all(), "invalid strategy") {
		t.Fatalf("expected invalid strategy notification, got:\n%s", f.sink.all())
	}
	// An invalid submission must not poison the id for a corrected retry.
	if seen, _ := f.store.IsProcessed(context.Background(), "job-4"); seen {
		t.Fatal("invalid strategy must not mark the job processed")
	}
}

func TestProcessDuplicateIDIsNoOp(t *testing.T) {
	f := newFixture(t)

	if ok := f.orch.Process(context.Background(), Request{ID: "job-5", SourceRef: "clip.mp4", Strategy: "compress"}); !ok {
		t.Fatal("first submission must succeed")
	}
	uploadsAfterFirst := len(f.transport.uploaded())

	if ok := f.orch.Process(context.Background(), Request{ID: "job-5", SourceRef: "clip.mp4", Strategy: "compress"}); !ok {
		t.Fatal("duplicate submission must still report success")
	}
	if len(f.transport.uploaded()) != uploadsAfterFirst {
		t.Fatal("duplicate submission must not re-run the pipeline")
	}
}

func TestProcessDeliveryFailureDeliversBackup(t *testing.T) {
	f := newFixture(t)
	f.transport.uploadErr = errors.New("surface rejected upload")

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-6",
		SourceRef: "clip.mp4",
		Strategy:  "compress",
	})
	if ok {
		t.Fatal("expected delivery failure to fail the job")
	}

	uploads := f.transport.uploaded()
	if len(uploads) != 1 || !strings.HasSuffix(uploads[0], ".backup") {
		t.Fatalf("expected backup delivery after failed upload, got %v", uploads)
	}
	if remaining := workDirEntries(t, f.cfg); len(remaining) != 0 {
		t.Fatalf("expected staging cleanup, found %v", remaining)
	}
}

func TestProcessDownloadFailureHasNoBackupToDeliver(t *testing.T) {
	f := newFixture(t)
	f.transport.downloadErr = services.Wrap(services.ErrDownload, "download", "fetch", "gone", nil)

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-7",
		SourceRef: "gone.mp4",
		Strategy:  "compress",
	})
	if ok {
		t.Fatal("expected download failure to fail the job")
	}
	if len(f.transport.uploaded()) != 0 {
		t.Fatal("nothing may be delivered when no file was ever staged")
	}
}

func TestProcessBackupFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)
	// A directory at the backup path makes the copy fail.
	if err := os.MkdirAll(filepath.Join(f.cfg.Paths.WorkDir, "clip.mp4.backup"), 0o755); err != nil {
		t.Fatalf("mkdir backup obstruction: %v", err)
	}

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-8",
		SourceRef: "clip.mp4",
		Strategy:  "compress",
	})
	if !ok {
		t.Fatal("backup failure alone must not fail the job")
	}
	if len(f.transport.uploaded()) != 1 {
		t.Fatalf("expected compressed delivery, got %v", f.transport.uploaded())
	}
}

func TestProcessHoldsStagingLockWhileRunning(t *testing.T) {
	f := newFixture(t)
	f.encoder.started = make(chan struct{})
	f.encoder.release = make(chan struct{})

	done := make(chan bool, 1)
	go func() {
		done <- f.orch.Process(context.Background(), Request{
			ID:        "job-10",
			SourceRef: "clip.mp4",
			Strategy:  "compress",
		})
	}()
	<-f.encoder.started

	// flock ownership is per open file description, so this independent
	// handle must be refused while the job holds the lock.
	outside := flock.New(filepath.Join(f.cfg.Paths.WorkDir, ".squeeze.lock"))
	if locked, err := outside.TryLock(); err != nil {
		t.Fatalf("TryLock returned error: %v", err)
	} else if locked {
		t.Fatal("staging lock must be held while a job is running")
	}

	close(f.encoder.release)
	if !<-done {
		t.Fatal("expected the held job to succeed")
	}

	locked, err := outside.TryLock()
	if err != nil {
		t.Fatalf("TryLock after completion returned error: %v", err)
	}
	if !locked {
		t.Fatal("staging lock must be released once the job finishes")
	}
	if err := outside.Unlock(); err != nil {
		t.Fatalf("Unlock returned error: %v", err)
	}
}

func TestProcessPersistsJobsToConfiguredStore(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStorePath("jobs.db"))
	st := testsupport.MustOpenStore(t, cfg)
	transport := &fakeTransport{}
	orch := New(cfg, transport, &fakeEncoder{outputSize: 512}, &captureSink{}, st, nil)

	if ok := orch.Process(context.Background(), Request{
		ID:        "job-11",
		SourceRef: "clip.mp4",
		Strategy:  "compress",
	}); !ok {
		t.Fatal("expected Process to succeed")
	}

	// A second handle on the same database file must see the finished job.
	other, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer other.Close()

	job, err := other.GetJob(context.Background(), "job-11")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if job.Stage != StageCompleted.String() {
		t.Fatalf("expected completed stage, got %q", job.Stage)
	}
}

func TestProcessAudioPathUploadsAudio(t *testing.T) {
	f := newFixture(t)

	ok := f.orch.Process(context.Background(), Request{
		ID:        "job-9",
		SourceRef: "song.flac",
		Strategy:  "compress",
		Audio:     true,
	})
	if !ok {
		t.Fatal("expected audio job to succeed")
	}
	uploads := f.transport.uploaded()
	if len(uploads) != 1 || !strings.HasSuffix(uploads[0], ".mp3") {
		t.Fatalf("expected mp3 delivery, got %v", uploads)
	}
	if f.transport.uploadKinds[0] != UploadAudio {
		t.Fatalf("expected audio upload kind, got %v", f.transport.uploadKinds[0])
	}
}

func TestStageStringsCoverLifecycle(t *testing.T) {
	stages := []Stage{StagePending, StageDownloading, StageBackedUp, StageCompressing, StageVerifying, StageSending, StageCompleted, StageRolledBack}
	seen := make(map[string]bool)
	for _, stage := range stages {
		name := stage.String()
		if name == "unknown" || seen[name] {
			t.Fatalf("stage %d has bad or duplicate name %q", stage, name)
		}
		seen[name] = true
	}
}
