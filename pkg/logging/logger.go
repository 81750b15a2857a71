// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptoservices.
//
// go-cryptoservices is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package logging provides privacy-aware structured logging for crypto
// operations. Every metadata entry carries a privacy classification;
// private and sensitive values are redacted before reaching the sink
// unless redaction is explicitly disabled for development use.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Privacy classifies a metadata entry for redaction purposes.
type Privacy int

const (
	// Public values are always rendered in plain text.
	Public Privacy = iota

	// Private values (key identifiers, error reasons) are redacted in
	// plain-text sinks.
	Private

	// Sensitive values are always redacted outside development.
	Sensitive
)

// String returns the classification name.
func (p Privacy) String() string {
	switch p {
	case Public:
		return "public"
	case Private:
		return "private"
	case Sensitive:
		return "sensitive"
	}
	return "unknown"
}

// redacted is what private/sensitive values render as.
const redacted = "<redacted>"

// Entry is a single classified metadata key/value pair.
type Entry struct {
	Key     string
	Value   string
	Privacy Privacy
}

// PublicEntry builds a public metadata entry.
func PublicEntry(key, value string) Entry {
	return Entry{Key: key, Value: value, Privacy: Public}
}

// PrivateEntry builds a private metadata entry.
func PrivateEntry(key, value string) Entry {
	return Entry{Key: key, Value: value, Privacy: Private}
}

// SensitiveEntry builds a sensitive metadata entry.
func SensitiveEntry(key, value string) Entry {
	return Entry{Key: key, Value: value, Privacy: Sensitive}
}

// Context identifies the operation a log line belongs to.
type Context struct {
	// Domain names the subsystem (e.g. "crypto", "keymanager").
	Domain string

	// Operation names the operation (e.g. "encrypt", "rotateKey").
	Operation string

	// CorrelationID ties log lines of one logical operation together.
	CorrelationID string

	// Metadata carries classified key/value pairs.
	Metadata []Entry
}

// Logger is the structured logging contract consumed by commands,
// providers, and the key manager. Log output is observational only and
// never affects control flow.
type Logger interface {
	Debug(msg string, ctx Context)
	Info(msg string, ctx Context)
	Warn(msg string, ctx Context)
	Error(msg string, ctx Context)
}

// SlogLogger implements Logger on top of log/slog with privacy redaction.
type SlogLogger struct {
	logger *slog.Logger
	debug  bool

	// renderPrivate disables redaction. Intended for development only.
	renderPrivate bool
}

// NewLogger creates a logger writing to stderr. When debug is true,
// debug-level messages are emitted.
func NewLogger(debug bool) *SlogLogger {
	return NewLoggerWithWriter(os.Stderr, debug)
}

// NewLoggerWithWriter creates a logger writing to the given writer.
func NewLoggerWithWriter(w io.Writer, debug bool) *SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{
		logger: slog.New(handler),
		debug:  debug,
	}
}

// WithPrivateRendering returns a copy of the logger that renders private
// and sensitive values in plain text. Never enable this outside
// development.
func (l *SlogLogger) WithPrivateRendering() *SlogLogger {
	clone := *l
	clone.renderPrivate = true
	return &clone
}

// DefaultLogger returns a logger with debug disabled.
func DefaultLogger() *SlogLogger {
	return NewLogger(false)
}

// Debug logs a debug message with classified metadata.
func (l *SlogLogger) Debug(msg string, ctx Context) {
	if !l.debug {
		return
	}
	l.logger.Debug(msg, l.attrs(ctx)...)
}

// Info logs an informational message with classified metadata.
func (l *SlogLogger) Info(msg string, ctx Context) {
	l.logger.Info(msg, l.attrs(ctx)...)
}

// Warn logs a warning message with classified metadata.
func (l *SlogLogger) Warn(msg string, ctx Context) {
	l.logger.Warn(msg, l.attrs(ctx)...)
}

// Error logs an error message with classified metadata.
func (l *SlogLogger) Error(msg string, ctx Context) {
	l.logger.Error(msg, l.attrs(ctx)...)
}

// attrs flattens a Context into slog arguments, redacting non-public
// values unless private rendering is enabled.
func (l *SlogLogger) attrs(ctx Context) []any {
	args := make([]any, 0, 2*(3+len(ctx.Metadata)))
	if ctx.Domain != "" {
		args = append(args, "domain", ctx.Domain)
	}
	if ctx.Operation != "" {
		args = append(args, "operation", ctx.Operation)
	}
	if ctx.CorrelationID != "" {
		args = append(args, "correlation_id", ctx.CorrelationID)
	}
	for _, entry := range ctx.Metadata {
		value := entry.Value
		if entry.Privacy != Public && !l.renderPrivate {
			value = redacted
		}
		args = append(args, entry.Key, value)
	}
	return args
}

// Verify interface compliance at compile time
var _ Logger = (*SlogLogger)(nil)
