package segment

import "github.com/fwojciec/jobcore"

var coreSections = []jobcore.SectionType{
	jobcore.SectionRoleOverview,
	jobcore.SectionResponsibilities,
	jobcore.SectionQualifications,
}

// quality scores a segmentation. sections must be in document order so
// that hierarchical consistency reflects the source layout.
func (s *Segmenter) quality(sections []jobcore.Section, fidelity float64) jobcore.StructureQualityMetrics {
	var q jobcore.StructureQualityMetrics

	present := 0
	for _, t := range coreSections {
		for _, sec := range sections {
			if sec.Type == t {
				present++
				break
			}
		}
	}
	q.SectionCompleteness = float64(present) / float64(len(coreSections))

	var total, conf float64
	labelled := 0
	for _, sec := range sections {
		for _, b := range sec.Bullets {
			total++
			conf += b.Confidence
			if b.Label != "" {
				labelled++
			}
		}
	}
	if total > 0 {
		q.BulletQuality = conf / total * float64(labelled) / total
	}

	q.HierarchicalConsistency = consistency(sections)
	q.ContentFidelity = s.fidelityScore(fidelity)

	q.Overall = jobcore.ClampConfidence(0.30*q.SectionCompleteness + 0.25*q.BulletQuality +
		0.25*q.HierarchicalConsistency + 0.20*q.ContentFidelity)
	return q
}

// consistency is the share of adjacent classified sections that follow the
// canonical order. A document without classified sections has no
// hierarchy and scores zero.
func consistency(sections []jobcore.Section) float64 {
	var ranks []int
	for _, sec := range sections {
		if sec.Type != jobcore.SectionUnknown {
			ranks = append(ranks, sec.Type.Rank())
		}
	}
	switch len(ranks) {
	case 0:
		return 0
	case 1:
		return 1
	}
	ordered := 0
	for i := 1; i < len(ranks); i++ {
		if ranks[i] >= ranks[i-1] {
			ordered++
		}
	}
	return float64(ordered) / float64(len(ranks)-1)
}

// fidelityScore is 1 inside the healthy retention band and falls off
// linearly outside it.
func (s *Segmenter) fidelityScore(ratio float64) float64 {
	low, high := s.thresholds.FidelityLow, s.thresholds.FidelityHigh
	switch {
	case ratio <= 0:
		return 0
	case ratio < low:
		return ratio / low
	case ratio > high:
		return jobcore.ClampConfidence(1 - (ratio - high))
	}
	return 1
}
