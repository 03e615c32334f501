// Package slog provides log/slog decorators for jobcore services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/jobcore"
)

// Ensure LoggingRegistry implements jobcore.ParserRegistry.
var _ jobcore.ParserRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a ParserRegistry with logging of parser selection.
type LoggingRegistry struct {
	next   jobcore.ParserRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next jobcore.ParserRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// SelectAndParse delegates to the wrapped registry and logs the answer.
func (r *LoggingRegistry) SelectAndParse(rawURL, document string) (rec jobcore.JobRecord, err error) {
	defer func(begin time.Time) {
		r.logRecord("select and parse", rawURL, rec, err, time.Since(begin))
	}(time.Now())
	return r.next.SelectAndParse(rawURL, document)
}

// Fallback delegates to the wrapped registry and logs the answer.
func (r *LoggingRegistry) Fallback(rawURL, document string) (rec jobcore.JobRecord, err error) {
	defer func(begin time.Time) {
		r.logRecord("fallback parse", rawURL, rec, err, time.Since(begin))
	}(time.Now())
	return r.next.Fallback(rawURL, document)
}

func (r *LoggingRegistry) logRecord(msg, rawURL string, rec jobcore.JobRecord, err error, d time.Duration) {
	if err != nil {
		r.logger.Warn(msg, "url", rawURL, "duration", d, "err", err)
		return
	}
	r.logger.Info(msg,
		"url", rawURL,
		"parser", rec.Parser,
		"method", string(rec.Method),
		"confidence", rec.Confidence,
		"duration", d,
	)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(p jobcore.SiteParser) {
	r.logger.Debug("register parser", "parser", p.Name(), "specificity", p.Specificity())
	r.next.Register(p)
}

// Parsers delegates to the wrapped registry.
func (r *LoggingRegistry) Parsers() []jobcore.SiteParser {
	return r.next.Parsers()
}
