package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobcore"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	recs, err := readRecords(deps, c.Record)
	if err != nil {
		return fail(deps, err)
	}
	if len(recs) != 1 {
		return fail(deps, jobcore.Errorf(jobcore.EINVALID, "%s must hold exactly one record", c.Record))
	}
	candidates, err := readRecords(deps, c.Candidates)
	if err != nil {
		return fail(deps, err)
	}

	v := deps.Detector.Check(recs[0], candidates)
	fmt.Fprintf(deps.Stdout, "Action:     %s\n", v.Action)
	fmt.Fprintf(deps.Stdout, "Method:     %s\n", v.Method)
	fmt.Fprintf(deps.Stdout, "Score:      %.2f\n", v.Score)
	if v.MatchedID != "" {
		fmt.Fprintf(deps.Stdout, "Matched:    %s\n", v.MatchedID)
	}
	if len(v.Factors) > 0 {
		fmt.Fprintf(deps.Stdout, "Factors:    %s\n", strings.Join(v.Factors, ", "))
	}
	return nil
}

// Run executes the cluster command.
func (c *ClusterCmd) Run(deps *Dependencies) error {
	recs, err := readRecords(deps, c.Records)
	if err != nil {
		return fail(deps, err)
	}

	groups := deps.Detector.Cluster(recs)
	if len(groups) == 0 {
		fmt.Fprintln(deps.Stdout, "No duplicates found.")
		return nil
	}
	for i, g := range groups {
		fmt.Fprintf(deps.Stdout, "Group %d: %s (%.2f), primary %s\n", i+1, g.Method, g.Confidence, g.Primary.ID)
		for _, r := range g.Records {
			fmt.Fprintf(deps.Stdout, "  %s  %s  %s\n", r.ID, r.Title.Value, r.SourceURL)
		}
	}
	return nil
}
