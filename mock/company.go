package mock

import "github.com/fwojciec/jobcore"

var _ jobcore.CompanyNormalizer = (*CompanyNormalizer)(nil)

// CompanyNormalizer is a mock implementation of jobcore.CompanyNormalizer.
type CompanyNormalizer struct {
	NormalizeFn func(name string) jobcore.Normalization
	LearnFn     func(req jobcore.LearnRequest) (jobcore.CompanyVariation, bool)
}

func (n *CompanyNormalizer) Normalize(name string) jobcore.Normalization {
	return n.NormalizeFn(name)
}

func (n *CompanyNormalizer) Learn(req jobcore.LearnRequest) (jobcore.CompanyVariation, bool) {
	return n.LearnFn(req)
}

var _ jobcore.VariationStore = (*VariationStore)(nil)

// VariationStore is a mock implementation of jobcore.VariationStore.
type VariationStore struct {
	LookupFn func(key string) (jobcore.CompanyVariation, bool)
	PutFn    func(v jobcore.CompanyVariation) jobcore.CompanyVariation
	AllFn    func() []jobcore.CompanyVariation
}

func (s *VariationStore) Lookup(key string) (jobcore.CompanyVariation, bool) {
	return s.LookupFn(key)
}

func (s *VariationStore) Put(v jobcore.CompanyVariation) jobcore.CompanyVariation {
	return s.PutFn(v)
}

func (s *VariationStore) All() []jobcore.CompanyVariation {
	return s.AllFn()
}
