// Package logging provides structured logging for the hub renamer.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the application.
//
// # Features
//
//   - Text output for interactive use (human-readable)
//   - JSON output for scripted runs (machine-parsable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stderr"   # stderr, stdout
//
// Logs go to stderr by default so that table output on stdout can be
// piped or redirected cleanly. At debug level the full protocol exchange
// with the hub is logged frame by frame.
//
// # Security
//
// Never log the access token. Log connection URLs without credentials.
package logging
