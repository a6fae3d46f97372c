// Package logging provides structured logging for the irrigation console.
//
// This package wraps Go's standard log/slog package. Operational events
// (broker connection state, journal and telemetry failures) are logged here;
// operator-facing console text is written by package console instead, so the
// default destination is stderr.
//
// # Configuration
//
//	logging:
//	  level: "warn"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Warn("mqtt connection lost", "error", err)
//
// Never log broker passwords or InfluxDB tokens.
package logging
