package sqlite

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobcore.AttemptTracker = (*AttemptTracker)(nil)

// AttemptTracker implements jobcore.AttemptTracker by inserting one row per
// attempt. Write failures are logged and never reach the extraction.
type AttemptTracker struct {
	db     *DB
	logger *slog.Logger
}

// NewAttemptTracker creates a new AttemptTracker.
func NewAttemptTracker(db *DB, logger *slog.Logger) *AttemptTracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AttemptTracker{db: db, logger: logger}
}

// LogAttempt stores a.
func (t *AttemptTracker) LogAttempt(a jobcore.AttemptLog) {
	var errText string
	if a.Err != nil {
		errText = a.Err.Error()
	}
	_, err := t.db.ExecContext(context.Background(), `
		INSERT INTO attempts (id, url, parser, success, confidence, duration_ms, method, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), a.URL, a.Parser, a.Success, a.Confidence, a.Duration.Milliseconds(),
		string(a.Method), errText, formatTime(time.Now()))
	if err != nil {
		t.logger.Error("store attempt", "url", a.URL, "parser", a.Parser, "error", err)
	}
}

// AttemptFilter selects stored attempts.
type AttemptFilter struct {
	Parser *string
	Limit  int
	Offset int
}

// FindAttempts returns stored attempts, newest first.
func (t *AttemptTracker) FindAttempts(ctx context.Context, filter AttemptFilter) ([]jobcore.AttemptLog, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT url, parser, success, confidence, duration_ms, method FROM attempts WHERE 1=1")
	if filter.Parser != nil {
		query.WriteString(" AND parser = ?")
		args = append(args, *filter.Parser)
	}
	query.WriteString(" ORDER BY rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := t.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []jobcore.AttemptLog
	for rows.Next() {
		var (
			a      jobcore.AttemptLog
			ms     int64
			method string
		)
		if err := rows.Scan(&a.URL, &a.Parser, &a.Success, &a.Confidence, &ms, &method); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(ms) * time.Millisecond
		a.Method = jobcore.ExtractionMethod(method)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ParserStats summarizes the attempts of one parser.
type ParserStats struct {
	Parser        string
	Attempts      int
	Successes     int
	AvgConfidence float64
	AvgDuration   time.Duration
}

// SuccessRate returns the share of successful attempts.
func (s ParserStats) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// Stats returns per-parser statistics ordered by parser name.
func (t *AttemptTracker) Stats(ctx context.Context) ([]ParserStats, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT parser, COUNT(*), SUM(success), AVG(confidence), AVG(duration_ms)
		FROM attempts
		GROUP BY parser
		ORDER BY parser ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ParserStats
	for rows.Next() {
		var (
			s  ParserStats
			ms float64
		)
		if err := rows.Scan(&s.Parser, &s.Attempts, &s.Successes, &s.AvgConfidence, &ms); err != nil {
			return nil, err
		}
		s.AvgDuration = time.Duration(ms * float64(time.Millisecond))
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
