package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/inmem"
)

// Compile-time interface verification.
var _ jobcore.PatternStore = (*PatternStore)(nil)

// PatternStore implements jobcore.PatternStore over an inmem.PatternStore.
// Reads never touch the database; writes update memory first and then
// persist the affected patterns.
type PatternStore struct {
	db  *DB
	mem *inmem.PatternStore
}

// NewPatternStore loads every stored pattern into memory.
func NewPatternStore(ctx context.Context, db *DB) (*PatternStore, error) {
	patterns, err := findPatterns(ctx, db, "")
	if err != nil {
		return nil, err
	}
	mem := inmem.NewPatternStore()
	mem.Load(patterns)
	return &PatternStore{db: db, mem: mem}, nil
}

// GetPatterns returns the patterns recorded for domain.
func (s *PatternStore) GetPatterns(domain string) []jobcore.Pattern {
	return s.mem.GetPatterns(domain)
}

// RecordPattern stores or reinforces a pattern and persists the result.
func (s *PatternStore) RecordPattern(domain string, p jobcore.Pattern, confidence float64) error {
	if err := s.mem.RecordPattern(domain, p, confidence); err != nil {
		return err
	}
	for _, stored := range s.mem.GetPatterns(domain) {
		if stored.Field == p.Field && stored.Kind == p.Kind && stored.Expression == p.Expression && stored.Value == p.Value {
			return upsertPattern(context.Background(), s.db, stored)
		}
	}
	return nil
}

// PromoteVerified marks patterns verified in memory and in the database.
func (s *PatternStore) PromoteVerified(patterns []jobcore.Pattern) error {
	if err := s.mem.PromoteVerified(patterns); err != nil {
		return err
	}
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	for _, p := range patterns {
		if _, err := tx.ExecContext(ctx, `
			UPDATE patterns SET verified = 1, updated_at = ? WHERE id = ?
		`, now, p.ID); err != nil {
			return fmt.Errorf("failed to verify pattern %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// AllPatterns returns every pattern, optionally limited to one domain,
// ordered by domain and confidence.
func (s *PatternStore) AllPatterns(ctx context.Context, domain string) ([]jobcore.Pattern, error) {
	return findPatterns(ctx, s.db, domain)
}

func upsertPattern(ctx context.Context, db *DB, p jobcore.Pattern) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO patterns (id, domain, field, kind, expression, value, confidence, verified, hits, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			confidence = excluded.confidence,
			verified = excluded.verified,
			hits = excluded.hits,
			updated_at = excluded.updated_at
	`, p.ID, p.Domain, p.Field, string(p.Kind), p.Expression, p.Value, p.Confidence,
		p.Verified, p.Hits, formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to store pattern: %w", err)
	}
	return nil
}

func findPatterns(ctx context.Context, db *DB, domain string) ([]jobcore.Pattern, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, domain, field, kind, expression, value, confidence, verified, hits, updated_at FROM patterns WHERE 1=1")
	if domain != "" {
		query.WriteString(" AND domain = ?")
		args = append(args, inmem.DomainKey(domain))
	}
	query.WriteString(" ORDER BY domain ASC, confidence DESC")

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []jobcore.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func scanPattern(rows *sql.Rows) (jobcore.Pattern, error) {
	var (
		p         jobcore.Pattern
		kind      string
		updatedAt string
	)
	if err := rows.Scan(&p.ID, &p.Domain, &p.Field, &kind, &p.Expression, &p.Value,
		&p.Confidence, &p.Verified, &p.Hits, &updatedAt); err != nil {
		return jobcore.Pattern{}, err
	}
	p.Kind = jobcore.PatternKind(kind)

	var err error
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return jobcore.Pattern{}, err
	}
	return p, nil
}
