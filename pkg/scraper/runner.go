package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"scrapi-go/pkg/models"
)

// costPerResult is what the mock bills per extracted row.
const costPerResult = 0.0015

// RunStore is the persistence the runner writes progress into.
type RunStore interface {
	UpdateRun(id string, fn func(*models.Run)) error
	AddItems(runID string, data []map[string]any) []models.DatasetItem
}

// Runner executes jobs in the background. Close aborts whatever is still
// running.
type Runner struct {
	store    RunStore
	generate Generator
	step     time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Runner)

// WithStepDelay sets how long each stage takes.
func WithStepDelay(d time.Duration) Option {
	return func(r *Runner) { r.step = d }
}

// WithTimeout bounds a whole run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(st RunStore, generate Generator, opts ...Option) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		store:    st,
		generate: generate,
		step:     2 * time.Second,
		timeout:  2 * time.Minute,
		logger:   log.New(io.Discard),
		now:      func() time.Time { return time.Now().UTC() },
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs job in a goroutine tied to the runner's lifetime.
func (r *Runner) Start(job Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		cb := func(stage Stage, message string) {
			r.logger.Debug("run progress", "run", job.RunID, "stage", stage, "msg", message)
		}
		if err := r.Run(r.ctx, job, cb); err != nil {
			r.logger.Warn("run ended with error", "run", job.RunID, "err", err)
		}
	}()
}

// Close aborts in-flight runs and waits for them to record their outcome.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

// Run executes job synchronously. The run record is always left in a final
// state: succeeded, failed or aborted.
func (r *Runner) Run(ctx context.Context, job Job, progress ProgressCallback) error {
	if progress == nil {
		progress = func(Stage, string) {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := r.now()
	progress(StageQueued, "Run accepted")
	if err := r.store.UpdateRun(job.RunID, func(run *models.Run) {
		run.Status = models.RunStatusRunning
		run.StartedAt = &started
	}); err != nil {
		return newStoreError(err)
	}

	progress(StageFetching, fmt.Sprintf("Searching %v in %s", job.SearchTerms, job.Location))
	if err := r.wait(ctx); err != nil {
		return r.fail(job, started, err)
	}

	progress(StageExtracting, "Extracting results")
	rows, err := r.generate(job)
	if err != nil {
		return r.fail(job, started, newExtractionError(err))
	}
	if job.MaxResults > 0 && len(rows) > job.MaxResults {
		rows = rows[:job.MaxResults]
	}
	if err := r.wait(ctx); err != nil {
		return r.fail(job, started, err)
	}
	added := r.store.AddItems(job.RunID, rows)

	finished := r.now()
	dur := int(finished.Sub(started).Seconds())
	if err := r.store.UpdateRun(job.RunID, func(run *models.Run) {
		run.Status = models.RunStatusSucceeded
		run.FinishedAt = &finished
		run.DurationSeconds = &dur
		run.Cost = float64(len(added)) * costPerResult
	}); err != nil {
		return newStoreError(err)
	}
	progress(StageComplete, fmt.Sprintf("%d results", len(added)))
	r.logger.Info("run succeeded", "run", job.RunID, "results", len(added))
	return nil
}

func (r *Runner) wait(ctx context.Context) error {
	t := time.NewTimer(r.step)
	defer t.Stop()
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return newTimeoutError(ctx.Err())
		}
		return newCancelledError(ctx.Err())
	case <-t.C:
		return nil
	}
}

// fail records err on the run. Cancellation marks it aborted, everything else
// failed.
func (r *Runner) fail(job Job, started time.Time, err error) error {
	status := models.RunStatusFailed
	msg := err.Error()
	var se *ScraperError
	if errors.As(err, &se) {
		msg = se.UserMessage()
		if se.Type == ErrorTypeCancelled {
			status = models.RunStatusAborted
		}
	}
	finished := r.now()
	dur := int(finished.Sub(started).Seconds())
	if uerr := r.store.UpdateRun(job.RunID, func(run *models.Run) {
		run.Status = status
		run.FinishedAt = &finished
		run.DurationSeconds = &dur
		run.ErrorMessage = &msg
	}); uerr != nil {
		r.logger.Error("failed to record run failure", "run", job.RunID, "err", uerr)
	}
	return err
}
