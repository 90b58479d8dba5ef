package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/state"
)

// Options configures the interactive UI.
type Options struct {
	Context      context.Context
	Runner       BatchRunner
	Store        *state.Store
	Logs         LogTailer
	Config       config.Config
	LastCategory string
	ThemeName    string
	PrefsPath    string
	PollTick     time.Duration
}

// Run starts the Bubble Tea program and blocks until the operator exits. It
// reports whether the session ended on an interrupt.
func Run(ctx context.Context, opts Options) (bool, error) {
	opts.Context = ctx
	model := New(opts)

	// Standard log output would tear the alternate screen. DEBUG sends it to
	// a file instead.
	prevOut, prevPrefix := log.Writer(), log.Prefix()
	defer func() {
		log.SetOutput(prevOut)
		log.SetPrefix(prevPrefix)
	}()
	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("nzbpost-debug.log", "nzbpost")
		if err != nil {
			return false, fmt.Errorf("open debug log: %w", err)
		}
		defer func() { _ = f.Close() }()
	} else {
		log.SetOutput(io.Discard)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return true, nil
		}
		return false, fmt.Errorf("run ui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Interrupted(), nil
	}
	return false, nil
}
