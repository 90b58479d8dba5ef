package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/nzbpost/internal/submit"
)

// EventLimit caps how many events a snapshot keeps.
const EventLimit = 500

// Snapshot represents the latest batch progress available to the UI.
type Snapshot struct {
	Running     bool
	Finished    bool
	Summary     submit.Summary
	Current     submit.Job
	Events      []submit.Event
	LastError   error
	LastUpdated time.Time
}

// Processed returns how many files of the batch have been handled.
func (s Snapshot) Processed() int {
	sum := s.Summary
	return sum.Accepted + sum.Rejected + sum.Unparseable + sum.Failed
}

// Store coordinates the batch goroutine writing events and the UI reading
// snapshots. The zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Ensure Store can be handed to a submit.Runner.
var _ submit.Observer = (*Store)(nil)

// Observe records a batch event. A new batch clears the previous one.
func (s *Store) Observe(e submit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Kind {
	case submit.EventBatchStarted:
		s.snapshot = Snapshot{Running: true}
	case submit.EventSubmitting:
		s.snapshot.Current = e.Job
	case submit.EventBatchFinished, submit.EventBatchFailed:
		s.snapshot.Running = false
		s.snapshot.Finished = true
		s.snapshot.Current = submit.Job{}
	}

	s.snapshot.Summary = e.Summary
	if e.Err != nil {
		s.snapshot.LastError = e.Err
	}
	s.snapshot.Events = append(s.snapshot.Events, e)
	if over := len(s.snapshot.Events) - EventLimit; over > 0 {
		s.snapshot.Events = append([]submit.Event(nil), s.snapshot.Events[over:]...)
	}
	s.snapshot.LastUpdated = e.Time
	if s.snapshot.LastUpdated.IsZero() {
		s.snapshot.LastUpdated = time.Now()
	}
}

// Reset forgets the previous batch.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Events = cloneEvents(s.snapshot.Events)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneEvents(events []submit.Event) []submit.Event {
	if len(events) == 0 {
		return nil
	}
	dup := make([]submit.Event, len(events))
	copy(dup, events)
	return dup
}
