// Package log provides structured protocol logging for channels.
//
// This package defines the Logger interface and Event types for capturing
// channel events at several layers (transport, handshake, auth, channel).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Builders accept a Logger through an option:
//
//	// For development: log to console via slog
//	network.WithProtocolLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/mash/echo.mlog")
//	network.WithProtocolLogger(fl)
//
//	// Both: use MultiLogger
//	network.WithProtocolLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
// # Event Types
//
//   - Application bytes read or written (FrameEvent)
//   - Interest set updates (InterestEvent)
//   - Handshake, authentication and channel transitions (StateChangeEvent)
//   - Failures at any layer (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .mlog extension. Reader streams them
// back with optional filtering.
package log
