package slog

import (
	"log/slog"

	"github.com/fwojciec/jobcore"
)

// Ensure LoggingNormalizer implements jobcore.CompanyNormalizer.
var _ jobcore.CompanyNormalizer = (*LoggingNormalizer)(nil)

// LoggingNormalizer wraps a CompanyNormalizer with logging of learned
// variations. Normalize is logged at debug level only.
type LoggingNormalizer struct {
	next   jobcore.CompanyNormalizer
	logger *slog.Logger
}

// NewLoggingNormalizer creates a new LoggingNormalizer.
func NewLoggingNormalizer(next jobcore.CompanyNormalizer, logger *slog.Logger) *LoggingNormalizer {
	return &LoggingNormalizer{next: next, logger: logger}
}

// Normalize delegates to the wrapped normalizer.
func (n *LoggingNormalizer) Normalize(name string) jobcore.Normalization {
	res := n.next.Normalize(name)
	n.logger.Debug("normalize company",
		"name", name,
		"canonical", res.Canonical,
		"confidence", res.Confidence,
		"learned", res.IsLearned,
	)
	return res
}

// Learn delegates to the wrapped normalizer and logs the outcome.
func (n *LoggingNormalizer) Learn(req jobcore.LearnRequest) (jobcore.CompanyVariation, bool) {
	v, ok := n.next.Learn(req)
	if !ok {
		n.logger.Info("company variation rejected", "a", req.NameA, "b", req.NameB)
		return v, ok
	}
	n.logger.Info("company variation learned",
		"a", req.NameA,
		"b", req.NameB,
		"canonical", v.Canonical,
		"variations", len(v.Variations),
		"confidence", v.Confidence,
	)
	return v, ok
}
