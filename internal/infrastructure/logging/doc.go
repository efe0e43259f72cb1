// Package logging provides structured logging for deviceutil.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the application.
//
// # Features
//
//   - JSON or text output
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "error"     # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Logs go to stderr by default; stdout carries the command's own output.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("catalog refreshed", "accepted", 12)
//	logger.Error("load failed", "error", err)
//
// # Security
//
// Never log device passwords. Log serial numbers and field names instead.
package logging
