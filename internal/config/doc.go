// Package config resolves the nzbpost run configuration from the environment.
//
// # Variables
//
// All four variables are required:
//
//   - NZBGEEK_API_KEY: indexer API key
//   - NZBGEEK_SUBMISSION_FOLDER: folder holding pending .nzb files (must exist)
//   - NZBGEEK_COMPLETE_FOLDER: folder receiving accepted files (created if absent)
//   - NZBGEEK_LOG_FOLDER: folder receiving daily submission logs (created if absent)
//
// Values are trimmed. Folder paths accept a leading ~ and are made absolute.
//
// # Errors
//
// Load and FromEnv return errors matching one of the sentinels with errors.Is:
//
//   - ErrMissingConfig: one or more variables unset or empty; every missing
//     variable is listed in a single error
//   - ErrMissingSourceDirectory: the submission folder is absent or not a folder
//   - ErrDirectoryCreation: an output folder could not be created
//
// All of them are fatal to a run and are reported before any file is listed or
// any request is made.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	for _, dir := range cfg.Created {
//		log.Printf("created %s", dir)
//	}
//
// The CLI seeds the environment from a .env file before calling Load, so tests
// and callers that need isolation should use FromEnv with their own lookup.
package config
