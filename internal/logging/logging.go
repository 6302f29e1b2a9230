// Package logging wires github.com/rs/zerolog the way the pack's server
// repos set up structured logging: console-pretty in development, JSON in
// production, with a correlation id attached per request.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. pretty selects the human-readable
// console writer (development); false emits structured JSON (production).
func New(pretty bool, level zerolog.Level) zerolog.Logger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(out).With().Timestamp().Logger()
}

// WithCorrelationID returns a child logger tagging every subsequent entry
// with correlationID, for the §7 Internal-error correlation-id contract.
func WithCorrelationID(l zerolog.Logger, correlationID string) zerolog.Logger {
	return l.With().Str("correlation_id", correlationID).Logger()
}

// WithEmpire returns a child logger tagging entries with empireID, used by
// the turn pipeline's per-empire failure logging (§4.H, §7).
func WithEmpire(l zerolog.Logger, empireID string) zerolog.Logger {
	return l.With().Str("empire_id", empireID).Logger()
}
