package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/five82/nzbpost/internal/batchlog"
	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/nzbgeek"
	"github.com/five82/nzbpost/internal/prefs"
	"github.com/five82/nzbpost/internal/state"
	"github.com/five82/nzbpost/internal/submit"
	"github.com/five82/nzbpost/internal/ui"
)

// ErrInterrupted reports a run stopped by the operator.
var ErrInterrupted = errors.New("interrupted")

// Options configure a nzbpost run.
type Options struct {
	PrefsPath string // empty uses default ~/.config/nzbpost/prefs.toml

	// Category selects a headless run with this category code. Empty starts
	// the interactive UI.
	Category string
	// Watch repeats headless batches at this interval until interrupted.
	Watch time.Duration
	// TailLines prints the last lines of today's log and exits when positive.
	TailLines int
	// Verbose echoes raw indexer responses in headless output.
	Verbose bool

	Endpoint string              // empty uses nzbgeek.DefaultEndpoint
	Getenv   func(string) string // nil uses os.Getenv
	Out      io.Writer           // nil uses os.Stdout
}

// Run loads the configuration and runs either the interactive UI or headless
// batches until the operator exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.FromEnv(opts.Getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.Printf("ignoring prefs: %v", err)
	}

	printer := ui.NewPrinter(out, userPrefs.Theme, opts.Verbose)
	for _, dir := range cfg.Created {
		printer.Created(dir)
	}

	logger := batchlog.New(cfg.LogDir)
	if opts.TailLines > 0 {
		lines, err := logger.Tail(time.Now(), opts.TailLines)
		if err != nil {
			return fmt.Errorf("read batch log: %w", err)
		}
		printer.Lines(lines)
		return nil
	}

	var clientOpts []nzbgeek.Option
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, nzbgeek.WithEndpoint(opts.Endpoint))
	}
	client, err := nzbgeek.NewClient(cfg.APIKey, clientOpts...)
	if err != nil {
		return fmt.Errorf("init nzbgeek client: %w", err)
	}

	if opts.Category != "" {
		category, err := nzbgeek.ParseCode(opts.Category)
		if err != nil {
			return fmt.Errorf("category: %w", err)
		}
		runner := submit.NewRunner(cfg, client, logger, submit.WithObserver(printer))
		printer.Settings(cfg, category, logger.TodayPath())
		return runHeadless(ctx, runner, printer, category, opts.Watch)
	}

	store := &state.Store{}
	runner := submit.NewRunner(cfg, client, logger, submit.WithObserver(store))
	interrupted, err := ui.Run(ctx, ui.Options{
		Runner:       runner,
		Store:        store,
		Logs:         logger,
		Config:       cfg,
		LastCategory: userPrefs.Category,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    prefsPath,
	})
	if err != nil {
		return err
	}
	if interrupted {
		return ErrInterrupted
	}
	return nil
}

func runHeadless(ctx context.Context, runner ui.BatchRunner, printer *ui.Printer, category string, watch time.Duration) error {
	batch := func() error {
		sum, err := runner.Run(ctx, category)
		if err != nil {
			return fmt.Errorf("run batch: %w", err)
		}
		printer.Summary(sum)
		return nil
	}

	if watch > 0 {
		return watchLoop(ctx, watch, batch)
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if err := batch(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return nil
}
