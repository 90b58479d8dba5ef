// Package ui provides the terminal interface of nzbpost.
//
// The interactive session is a Bubble Tea program that walks through a fixed
// set of screens:
//
//   - Category menu: keys 1-8 pick a main category, 9 uses the PC/0day
//     default, enter reuses the remembered category, 0 exits
//   - Subcategory prompt: an optional full category ID for the chosen main
//     category
//   - Confirm: the resolved folders, today's log file and the category
//   - Running: spinner, progress bar and the live event log
//   - Summary: accepted count, a breakdown and the tail of today's log,
//     followed by the check again / exit prompt
//
// The batch runs inside a tea.Cmd. The model polls the state.Store on a tick
// while the batch is running, mirroring the producer/consumer split between
// submit.Runner and the store. An interrupt during a batch is held until the
// batch returns.
//
// Printer renders the same event lines for headless runs, without any
// screen management.
package ui
