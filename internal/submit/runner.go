package submit

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/nzbgeek"
)

// Logger is the append-only batch log. *batchlog.Logger implements it.
type Logger interface {
	Append(message string) error
}

// Runner processes the submission folder one file at a time.
type Runner struct {
	sourceDir   string
	completeDir string
	client      nzbgeek.Submitter
	log         Logger
	observer    Observer
	now         func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithObserver registers the receiver for batch events.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithClock overrides the time source for summaries and events.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner builds a Runner for the folders in cfg.
func NewRunner(cfg config.Config, client nzbgeek.Submitter, logger Logger, opts ...Option) *Runner {
	r := &Runner{
		sourceDir:   cfg.SubmissionDir,
		completeDir: cfg.CompleteDir,
		client:      client,
		log:         logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run submits every NZB file currently in the submission folder under
// category and returns the batch summary. Per-file failures are logged and
// never abort the batch; only a failure to list the folder is returned.
//
// Cancelling ctx does not interrupt the batch. Callers observe cancellation
// between batches.
func (r *Runner) Run(ctx context.Context, category string) (Summary, error) {
	ctx = context.WithoutCancel(ctx)
	sum := Summary{ID: uuid.New(), Category: category, Started: r.now()}

	paths, err := Enumerate(r.sourceDir)
	if err != nil {
		r.record(&sum, fmt.Sprintf("[ERROR] Could not list NZB files: %v", err))
		sum.Finished = r.now()
		r.emit(Event{Kind: EventBatchFailed, Err: err, Detail: err.Error(), Summary: sum})
		return sum, err
	}

	sum.Total = len(paths)
	r.emit(Event{Kind: EventBatchStarted, Summary: sum})

	if len(paths) == 0 {
		r.record(&sum, "No NZB files found.")
		r.emit(Event{Kind: EventNoFiles, Summary: sum})
	}
	for i, path := range paths {
		job := Job{Path: path, Category: category, Index: i + 1, Total: len(paths)}
		r.process(ctx, job, &sum)
	}

	sum.Finished = r.now()
	r.record(&sum, fmt.Sprintf("Batch %s finished: %d/%d accepted", sum.ID, sum.Accepted, sum.Total))
	r.emit(Event{Kind: EventBatchFinished, Summary: sum})
	return sum, nil
}

func (r *Runner) process(ctx context.Context, job Job, sum *Summary) {
	name := filepath.Base(job.Path)
	r.record(sum, fmt.Sprintf("[%d/%d] Sending: %s (Category: %s)", job.Index, job.Total, name, job.Category))
	r.emit(Event{Kind: EventSubmitting, Job: job, Summary: *sum})

	body, err := r.client.Submit(ctx, job.Path, job.Category)
	if err != nil {
		sum.Failed++
		r.record(sum, fmt.Sprintf("[ERROR] Submission failed: %v", err))
		r.emit(Event{Kind: EventSubmitFailed, Job: job, Err: err, Detail: err.Error(), Summary: *sum})
		return
	}

	r.record(sum, "Response: "+body)
	r.emit(Event{Kind: EventResponse, Job: job, Detail: body, Summary: *sum})

	outcome, env := nzbgeek.Interpret(body)
	switch outcome {
	case nzbgeek.OutcomeUnparseable:
		sum.Unparseable++
		r.record(sum, "[WARNING] Non-JSON response: "+body)
		r.emit(Event{Kind: EventUnparseable, Job: job, Detail: body, Summary: *sum})
		return
	case nzbgeek.OutcomeRejected:
		sum.Rejected++
		detail := body
		if desc := env.ErrorDescription(); desc != "" {
			detail = desc
		}
		r.record(sum, "[WARNING] Unexpected response: "+body)
		r.emit(Event{Kind: EventRejected, Job: job, Detail: detail, Summary: *sum})
		return
	}

	// The indexer has the file now; a failed move below does not undo that.
	sum.Accepted++
	r.emit(Event{Kind: EventAccepted, Job: job, Summary: *sum})

	dest, err := Move(job.Path, r.completeDir)
	if err != nil {
		sum.MoveFailures++
		r.record(sum, fmt.Sprintf("[ERROR] Failed to move file: %v", err))
		r.emit(Event{Kind: EventMoveFailed, Job: job, Err: err, Detail: err.Error(), Summary: *sum})
		return
	}
	r.record(sum, "Moved to: "+dest)
	r.emit(Event{Kind: EventMoved, Job: job, Detail: dest, Summary: *sum})
}

// record appends to the batch log. Write failures are reported and swallowed.
func (r *Runner) record(sum *Summary, message string) {
	if r.log == nil {
		return
	}
	if err := r.log.Append(message); err != nil {
		if r.observer == nil {
			log.Printf("batch log write failed: %v", err)
			return
		}
		r.emit(Event{Kind: EventLogFailed, Err: err, Detail: err.Error(), Summary: *sum})
	}
}

func (r *Runner) emit(e Event) {
	if r.observer == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = r.now()
	}
	r.observer.Observe(e)
}
