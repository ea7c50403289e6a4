package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/storage"
)

// DefaultChunkSize is the number of lines processed between checkpoints.
const DefaultChunkSize = 100

// Detector extracts tags from one line of text.
// *detect.Detector satisfies it.
type Detector interface {
	Detect(text string) []core.Tag
}

// Result holds the tags detected for one input line.
type Result struct {
	Line int        `json:"line"` // Zero-based index in the input
	Text string     `json:"text"`
	Tags []core.Tag `json:"tags"`
}

// Runner detects tags for many lines concurrently.
type Runner struct {
	detector       Detector
	pool           *ants.Pool
	chunkSize      int
	progress       io.Writer
	reportInterval int
	checkpoints    storage.CheckpointRepository
	checkpointName string
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithWorkers sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithChunkSize sets how many lines are processed between checkpoints.
func WithChunkSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = DefaultChunkSize
		}
		r.chunkSize = size
		return nil
	}
}

// WithProgress reports progress to writer every interval lines.
func WithProgress(writer io.Writer, interval int) Option {
	return func(r *Runner) error {
		r.progress = writer
		r.reportInterval = interval
		return nil
	}
}

// WithCheckpoint records progress in repo under name so a later run resumes.
func WithCheckpoint(repo storage.CheckpointRepository, name string) Option {
	return func(r *Runner) error {
		if name == "" {
			return ErrCheckpointNameRequired
		}
		r.checkpoints = repo
		r.checkpointName = name
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "batch")
		return nil
	}
}

// NewRunner creates a runner around detector.
func NewRunner(detector Detector, opts ...Option) (*Runner, error) {
	if detector == nil {
		return nil, ErrDetectorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		detector:  detector,
		pool:      pool,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default().With("component", "batch"),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	return r, nil
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Run detects tags for every line and returns the results in input order.
//
// With a checkpoint configured, lines before the stored offset are skipped
// and the offset is advanced after each completed chunk. Cancelling ctx stops
// the run between lines; the results completed so far are returned with the
// context error.
func (r *Runner) Run(ctx context.Context, lines []string) ([]Result, error) {
	start, err := r.resumeOffset(ctx, len(lines))
	if err != nil {
		return nil, err
	}
	if start > 0 {
		r.logger.Info("resuming from checkpoint", "name", r.checkpointName, "offset", start)
	}

	var tracker *ProgressTracker
	if r.progress != nil {
		tracker = NewProgressTracker(r.progress, len(lines), r.reportInterval)
		tracker.Start(start)
		defer tracker.Finish()
	}

	results := make([]Result, 0, len(lines)-start)
	for offset := start; offset < len(lines); offset += r.chunkSize {
		end := min(offset+r.chunkSize, len(lines))
		chunk, err := r.runChunk(ctx, lines, offset, end)
		results = append(results, chunk...)
		if tracker != nil {
			tracker.Increment(len(chunk))
		}
		if err != nil {
			return results, err
		}
		if err := r.saveCheckpoint(ctx, int64(end)); err != nil {
			return results, err
		}
	}

	r.logger.Debug("batch complete", "lines", len(lines), "processed", len(results))
	return results, nil
}

// runChunk detects lines[offset:end]. On cancellation it returns the
// leading run of completed results so the checkpoint never skips a line.
func (r *Runner) runChunk(ctx context.Context, lines []string, offset, end int) ([]Result, error) {
	chunk := make([]Result, end-offset)
	done := make([]bool, end-offset)

	var (
		wg        sync.WaitGroup
		submitErr error
	)
	for i := offset; i < end; i++ {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			chunk[i-offset] = Result{Line: i, Text: lines[i], Tags: r.detector.Detect(lines[i])}
			done[i-offset] = true
		})
		if err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submitting line %d: %w", i, err)
			break
		}
	}
	wg.Wait()

	if submitErr != nil {
		n := 0
		for n < len(done) && done[n] {
			n++
		}
		return chunk[:n], submitErr
	}
	return chunk, nil
}

func (r *Runner) resumeOffset(ctx context.Context, total int) (int, error) {
	if r.checkpoints == nil {
		return 0, nil
	}
	cp, err := r.checkpoints.LoadCheckpoint(ctx, r.checkpointName)
	if err != nil {
		return 0, fmt.Errorf("loading checkpoint %q: %w", r.checkpointName, err)
	}
	if cp == nil {
		return 0, nil
	}
	return int(min(max(cp.Offset, 0), int64(total))), nil
}

func (r *Runner) saveCheckpoint(ctx context.Context, offset int64) error {
	if r.checkpoints == nil {
		return nil
	}
	err := r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{Name: r.checkpointName, Offset: offset})
	if err != nil {
		return fmt.Errorf("saving checkpoint %q: %w", r.checkpointName, err)
	}
	return nil
}
