package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/jobcore"
)

// Ensure LoggingDetector implements jobcore.DuplicateDetector.
var _ jobcore.DuplicateDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a DuplicateDetector with logging of verdicts.
type LoggingDetector struct {
	next   jobcore.DuplicateDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next jobcore.DuplicateDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Hash delegates to the wrapped detector.
func (d *LoggingDetector) Hash(r jobcore.JobRecord) jobcore.ContentHashBundle {
	return d.next.Hash(r)
}

// Check delegates to the wrapped detector and logs the verdict.
func (d *LoggingDetector) Check(r jobcore.JobRecord, candidates []jobcore.JobRecord) (v jobcore.DuplicateVerdict) {
	defer func(begin time.Time) {
		d.logger.Info("duplicate check",
			"id", r.ID,
			"candidates", len(candidates),
			"action", string(v.Action),
			"method", string(v.Method),
			"score", v.Score,
			"matched", v.MatchedID,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Check(r, candidates)
}

// Cluster delegates to the wrapped detector and logs the group count.
func (d *LoggingDetector) Cluster(records []jobcore.JobRecord) (groups []jobcore.DuplicateGroup) {
	defer func(begin time.Time) {
		d.logger.Info("duplicate clustering",
			"records", len(records),
			"groups", len(groups),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Cluster(records)
}

// SelectPrimary delegates to the wrapped detector.
func (d *LoggingDetector) SelectPrimary(records []jobcore.JobRecord) int {
	return d.next.SelectPrimary(records)
}
