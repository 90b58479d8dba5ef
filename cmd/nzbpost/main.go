package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/five82/nzbpost/internal/app"
)

const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	envPath := flag.String("env", ".env", "dotenv file to load before reading the environment")
	category := flag.String("category", "", "submit with this category code without the interactive menu")
	once := flag.Bool("once", false, "with -category, run a single batch and exit (default)")
	watchSeconds := flag.Int("watch", 0, "with -category, re-run a batch every N seconds until interrupted")
	prefsPath := flag.String("prefs", "", "override prefs path (optional, defaults to ~/.config/nzbpost/prefs.toml)")
	tailLines := flag.Int("tail", 0, "print the last N lines of today's submission log and exit")
	verbose := flag.Bool("v", false, "with -category, print raw indexer responses")
	flag.Parse()

	if *once && *watchSeconds > 0 {
		fmt.Fprintln(os.Stderr, "nzbpost: -once and -watch are mutually exclusive")
		return 1
	}
	if *watchSeconds > 0 && *category == "" {
		fmt.Fprintln(os.Stderr, "nzbpost: -watch requires -category")
		return 1
	}

	explicitEnv := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "env" {
			explicitEnv = true
		}
	})

	// Variables already set in the environment win over the file. A missing
	// default .env is fine.
	if err := godotenv.Load(*envPath); err != nil && (explicitEnv || !errors.Is(err, fs.ErrNotExist)) {
		fmt.Fprintf(os.Stderr, "nzbpost: load %s: %v\n", *envPath, err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		PrefsPath: *prefsPath,
		Category:  *category,
		TailLines: *tailLines,
		Verbose:   *verbose,
	}
	if w := *watchSeconds; w > 0 {
		opts.Watch = time.Duration(w) * time.Second
	}

	err := app.Run(ctx, opts)
	switch {
	case errors.Is(err, app.ErrInterrupted):
		fmt.Fprintln(os.Stderr, "\nProgram interrupted by user.")
		return exitInterrupted
	case err != nil:
		fmt.Fprintf(os.Stderr, "nzbpost: %v\n", err)
		return 1
	}
	return 0
}
