package sqlite

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/inmem"
)

// Compile-time interface verification.
var _ jobcore.VariationStore = (*VariationStore)(nil)

// VariationStore implements jobcore.VariationStore over an
// inmem.VariationStore. A Put can merge and re-own entries across the whole
// table, so every write replaces the stored table with the new snapshot.
type VariationStore struct {
	db     *DB
	mem    *inmem.VariationStore
	logger *slog.Logger
}

// NewVariationStore loads every stored variation into memory. Put cannot
// return an error, so persistence failures are reported to logger.
func NewVariationStore(ctx context.Context, db *DB, logger *slog.Logger) (*VariationStore, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT canonical, variations, confidence, updated_at
		FROM company_variations
		ORDER BY canonical ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seed []jobcore.CompanyVariation
	for rows.Next() {
		var (
			v          jobcore.CompanyVariation
			variations string
			updatedAt  string
		)
		if err := rows.Scan(&v.Canonical, &variations, &v.Confidence, &updatedAt); err != nil {
			return nil, err
		}
		if variations != "" {
			v.Variations = strings.Split(variations, "\n")
		}
		if v.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		seed = append(seed, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VariationStore{db: db, mem: inmem.NewVariationStore(seed...), logger: logger}, nil
}

// Lookup returns the entry owning key.
func (s *VariationStore) Lookup(key string) (jobcore.CompanyVariation, bool) {
	return s.mem.Lookup(key)
}

// Put stores v in memory and persists the resulting table.
func (s *VariationStore) Put(v jobcore.CompanyVariation) jobcore.CompanyVariation {
	stored := s.mem.Put(v)
	if err := s.persist(context.Background()); err != nil {
		s.logger.Error("persist company variations", "canonical", stored.Canonical, "error", err)
	}
	return stored
}

// All returns every entry sorted by canonical name.
func (s *VariationStore) All() []jobcore.CompanyVariation {
	return s.mem.All()
}

func (s *VariationStore) persist(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM company_variations"); err != nil {
		return err
	}
	for _, v := range s.mem.All() {
		updatedAt := v.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO company_variations (canonical_key, canonical, variations, confidence, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, jobcore.CompanyKey(v.Canonical), v.Canonical, strings.Join(v.Variations, "\n"),
			v.Confidence, formatTime(updatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
