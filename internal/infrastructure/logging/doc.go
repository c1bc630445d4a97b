// Package logging provides structured logging for impt binaries.
//
// This package wraps Go's standard log/slog package so that the CLI and the
// sandbox log the same way.
//
// # Features
//
//   - JSON output for the sandbox (machine-parsable)
//   - Text output for the CLI (human-readable, on stderr)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "impt-sandbox", "1.0.0")
//	logger.Info("starting sandbox", "port", 8080)
//
// Never log platform tokens or JWT secrets.
package logging
