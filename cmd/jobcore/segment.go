package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobcore"
)

// Run executes the segment command.
func (c *SegmentCmd) Run(deps *Dependencies) error {
	text, err := readInput(deps, c.File)
	if err != nil {
		return fail(deps, err)
	}
	if strings.TrimSpace(text) == "" {
		return fail(deps, jobcore.Errorf(jobcore.EINVALID, "empty document"))
	}

	doc := deps.Segmenter.Segment(text)
	if c.JSON {
		return writeJSON(deps.Stdout, doc)
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(deps.Stdout, "[%s] %s (%.2f)\n", s.Type, s.Title, s.Confidence)
		for _, b := range s.Bullets {
			indent := strings.Repeat("  ", b.Level+1)
			if b.Label != "" {
				fmt.Fprintf(deps.Stdout, "%s- %s: %s\n", indent, b.Label, b.Description)
			} else {
				fmt.Fprintf(deps.Stdout, "%s- %s\n", indent, b.Description)
			}
		}
	}

	m := doc.Metadata
	for _, kv := range []struct {
		label string
		value *string
	}{
		{"Title", m.Title},
		{"Company", m.Company},
		{"Location", m.Location},
		{"Salary", m.Salary},
		{"Job type", m.JobType},
		{"Level", m.ExperienceLevel},
		{"Department", m.Department},
		{"Requisition", m.RequisitionID},
	} {
		if kv.value != nil {
			fmt.Fprintf(deps.Stdout, "%-12s %s\n", kv.label+":", *kv.value)
		}
	}
	if m.Date != nil {
		fmt.Fprintf(deps.Stdout, "%-12s %s\n", "Date:", m.Date.Format("2006-01-02"))
	}
	fmt.Fprintf(deps.Stdout, "%-12s %.2f\n", "Quality:", doc.Quality.Overall)
	return nil
}
