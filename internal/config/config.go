package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Config captures the settings a submission run needs. It is built once at
// startup and passed by value; nothing below the app layer reads the
// environment.
type Config struct {
	APIKey        string
	SubmissionDir string
	CompleteDir   string
	LogDir        string

	// Created lists the output directories Load had to create.
	Created []string
}

// Environment variables read by Load.
const (
	EnvAPIKey        = "NZBGEEK_API_KEY"
	EnvSubmissionDir = "NZBGEEK_SUBMISSION_FOLDER"
	EnvCompleteDir   = "NZBGEEK_COMPLETE_FOLDER"
	EnvLogDir        = "NZBGEEK_LOG_FOLDER"
)

var (
	// ErrMissingConfig reports an unset or empty required variable.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrMissingSourceDirectory reports a submission folder that does not exist.
	ErrMissingSourceDirectory = errors.New("submission folder not found")
	// ErrDirectoryCreation reports an output folder that could not be created.
	ErrDirectoryCreation = errors.New("could not create folder")
)

const dirPerm = 0o755

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv resolves and validates the configuration using getenv as the
// variable source. Every missing variable is reported in the returned error.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Config{
		APIKey:        strings.TrimSpace(getenv(EnvAPIKey)),
		SubmissionDir: strings.TrimSpace(getenv(EnvSubmissionDir)),
		CompleteDir:   strings.TrimSpace(getenv(EnvCompleteDir)),
		LogDir:        strings.TrimSpace(getenv(EnvLogDir)),
	}

	var missing error
	for _, v := range []struct{ name, value string }{
		{EnvAPIKey, cfg.APIKey},
		{EnvSubmissionDir, cfg.SubmissionDir},
		{EnvCompleteDir, cfg.CompleteDir},
		{EnvLogDir, cfg.LogDir},
	} {
		if v.value == "" {
			missing = multierr.Append(missing, fmt.Errorf("%w: %s is not set", ErrMissingConfig, v.name))
		}
	}
	if missing != nil {
		return Config{}, missing
	}

	var err error
	for _, dir := range []*string{&cfg.SubmissionDir, &cfg.CompleteDir, &cfg.LogDir} {
		if *dir, err = expandPath(*dir); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrMissingConfig, err)
		}
	}

	info, err := os.Stat(cfg.SubmissionDir)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %q", ErrMissingSourceDirectory, cfg.SubmissionDir)
	}
	if !info.IsDir() {
		return Config{}, fmt.Errorf("%w: %q is not a directory", ErrMissingSourceDirectory, cfg.SubmissionDir)
	}

	for _, dir := range []string{cfg.CompleteDir, cfg.LogDir} {
		created, err := ensureDir(dir)
		if err != nil {
			return Config{}, err
		}
		if created {
			cfg.Created = append(cfg.Created, dir)
		}
	}

	return cfg, nil
}

// ensureDir creates dir and its parents when absent. It reports whether the
// directory had to be created.
func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%w %q: not a directory", ErrDirectoryCreation, dir)
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("%w %q: %w", ErrDirectoryCreation, dir, err)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrDirectoryCreation, dir, err)
	}
	return true, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
