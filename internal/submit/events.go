package submit

import (
	"time"

	"github.com/google/uuid"
)

// Job is one file submitted within a batch.
type Job struct {
	Path     string
	Category string
	Index    int // 1-based position in the batch
	Total    int
}

// Summary tallies a batch. Accepted counts remote acceptances, including
// files whose local move failed afterwards.
type Summary struct {
	ID       uuid.UUID
	Category string
	Started  time.Time
	Finished time.Time

	Total        int
	Accepted     int
	Rejected     int
	Unparseable  int
	Failed       int
	MoveFailures int
}

// Duration reports how long the batch ran.
func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// EventKind identifies a step of the batch.
type EventKind int

const (
	EventBatchStarted EventKind = iota
	EventNoFiles
	EventSubmitting
	EventResponse
	EventAccepted
	EventRejected
	EventUnparseable
	EventSubmitFailed
	EventMoved
	EventMoveFailed
	EventLogFailed
	EventBatchFailed
	EventBatchFinished
)

var eventNames = map[EventKind]string{
	EventBatchStarted:  "batch started",
	EventNoFiles:       "no files",
	EventSubmitting:    "submitting",
	EventResponse:      "response",
	EventAccepted:      "accepted",
	EventRejected:      "rejected",
	EventUnparseable:   "unparseable",
	EventSubmitFailed:  "submit failed",
	EventMoved:         "moved",
	EventMoveFailed:    "move failed",
	EventLogFailed:     "log failed",
	EventBatchFailed:   "batch failed",
	EventBatchFinished: "batch finished",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Problem reports whether the event describes a failure the operator should
// see.
func (k EventKind) Problem() bool {
	switch k {
	case EventRejected, EventUnparseable, EventSubmitFailed, EventMoveFailed, EventLogFailed, EventBatchFailed:
		return true
	}
	return false
}

// Event is emitted by Runner as a batch progresses.
type Event struct {
	Kind    EventKind
	Time    time.Time
	Job     Job    // zero for batch level events
	Detail  string // response body, destination path or error text
	Err     error
	Summary Summary // running totals at the time of the event
}

// Observer receives batch events. Observe is called synchronously from the
// goroutine running the batch.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }
