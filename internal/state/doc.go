// Package state shares batch progress between the submission goroutine and
// the terminal UI.
//
// # Overview
//
// Store implements submit.Observer. The batch runner calls Observe for every
// step of a batch; the UI reads Snapshot on its own tick and renders whatever
// is there. Neither side waits on the other.
//
//	Producer (batch):                Consumer (UI):
//	┌────────────────────┐          ┌──────────────────┐
//	│ runner.Run()       │          │ tick             │
//	│   → Observe(event) │─────────→│ store.Snapshot() │
//	│   → Observe(event) │ (mutex)  │ render progress  │
//	└────────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//   - EventBatchStarted replaces the whole snapshot, so each batch starts clean
//   - EventSubmitting sets Current to the job being uploaded
//   - EventBatchFinished and EventBatchFailed clear Running and set Finished
//   - Every event updates Summary and is appended to Events, capped at
//     EventLimit entries with the oldest dropped first
//   - Events carrying an error set LastError
//
// # Snapshot Copies
//
// Snapshot copies the event slice and wraps LastError, so a snapshot held by
// the UI never aliases the store's internal state.
//
// # Usage Example
//
//	store := &state.Store{}
//	runner := submit.NewRunner(cfg, client, logger, submit.WithObserver(store))
//	go runner.Run(ctx, "4010")
//
//	snap := store.Snapshot()
//	fmt.Printf("%d/%d processed\n", snap.Processed(), snap.Summary.Total)
//
// The zero Store is ready to use.
package state
