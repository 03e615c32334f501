package slog

import (
	"log/slog"

	"github.com/fwojciec/jobcore"
)

// Ensure LoggingTracker implements jobcore.AttemptTracker.
var _ jobcore.AttemptTracker = (*LoggingTracker)(nil)

// LoggingTracker logs every attempt at debug level before passing it on.
// A nil next makes it a pure logger.
type LoggingTracker struct {
	next   jobcore.AttemptTracker
	logger *slog.Logger
}

// NewLoggingTracker creates a new LoggingTracker.
func NewLoggingTracker(next jobcore.AttemptTracker, logger *slog.Logger) *LoggingTracker {
	return &LoggingTracker{next: next, logger: logger}
}

// LogAttempt logs a and forwards it to the wrapped tracker.
func (t *LoggingTracker) LogAttempt(a jobcore.AttemptLog) {
	args := []any{
		"url", a.URL,
		"parser", a.Parser,
		"success", a.Success,
		"confidence", a.Confidence,
		"duration", a.Duration,
	}
	if a.Err != nil {
		args = append(args, "err", a.Err)
	}
	t.logger.Debug("parse attempt", args...)
	if t.next != nil {
		t.next.LogAttempt(a)
	}
}
