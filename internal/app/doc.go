// Package app provides the orchestration layer for nzbpost.
//
// # Overview
//
// This package wires configuration, preferences, the NZBGeek client, the
// batch log and the batch runner together, then hands control to either the
// terminal UI or a headless loop. It is the composition root where all
// dependencies are initialized and connected.
//
// # Startup
//
//  1. Resolve the configuration from the environment (fatal on any error,
//     before a file is listed or a request is made)
//  2. Report output folders created during startup
//  3. Load remembered preferences (last category, theme)
//  4. Open today's batch log and build the NZBGeek client
//  5. Run the interactive UI, or headless batches when a category is given
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.FromEnv()     Resolve folders and API key
//	       ├─────> prefs.Load()         Last category and theme
//	       ├─────> batchlog.New()       Daily submission log
//	       ├─────> nzbgeek.NewClient()  Upload client
//	       ├─────> submit.NewRunner()   One batch per call
//	       └─────> ui.Run()             TUI (blocks), or runHeadless()
//
// # Headless Mode
//
// With Options.Category set, one batch runs and progress is printed line by
// line. Options.Watch repeats the batch at a fixed interval. Failed batches
// (an unreadable submission folder) double the wait up to 15 minutes.
//
// # Interrupts
//
// Cancelling the context never aborts an upload in flight. It is observed
// between batches, and Run then returns ErrInterrupted.
package app
