package mock

import "github.com/fwojciec/jobcore"

var _ jobcore.DuplicateDetector = (*DuplicateDetector)(nil)

// DuplicateDetector is a mock implementation of jobcore.DuplicateDetector.
type DuplicateDetector struct {
	HashFn          func(r jobcore.JobRecord) jobcore.ContentHashBundle
	CheckFn         func(r jobcore.JobRecord, candidates []jobcore.JobRecord) jobcore.DuplicateVerdict
	ClusterFn       func(records []jobcore.JobRecord) []jobcore.DuplicateGroup
	SelectPrimaryFn func(records []jobcore.JobRecord) int
}

func (d *DuplicateDetector) Hash(r jobcore.JobRecord) jobcore.ContentHashBundle {
	return d.HashFn(r)
}

func (d *DuplicateDetector) Check(r jobcore.JobRecord, candidates []jobcore.JobRecord) jobcore.DuplicateVerdict {
	return d.CheckFn(r, candidates)
}

func (d *DuplicateDetector) Cluster(records []jobcore.JobRecord) []jobcore.DuplicateGroup {
	return d.ClusterFn(records)
}

func (d *DuplicateDetector) SelectPrimary(records []jobcore.JobRecord) int {
	return d.SelectPrimaryFn(records)
}

var _ jobcore.Segmenter = (*Segmenter)(nil)

// Segmenter is a mock implementation of jobcore.Segmenter.
type Segmenter struct {
	SegmentFn func(rawText string) jobcore.HierarchicalDocument
}

func (s *Segmenter) Segment(rawText string) jobcore.HierarchicalDocument {
	return s.SegmentFn(rawText)
}
