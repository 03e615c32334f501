package main

import (
	"fmt"
)

// Run executes the patterns command.
func (c *PatternsCmd) Run(deps *Dependencies) error {
	patterns, err := deps.Patterns.AllPatterns(deps.Ctx, c.Domain)
	if err != nil {
		return fail(deps, err)
	}
	if len(patterns) == 0 {
		fmt.Fprintln(deps.Stdout, "No patterns learned yet.")
		return nil
	}
	for _, p := range patterns {
		verified := ""
		if p.Verified {
			verified = " verified"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s %s  %.2f  hits=%d%s\n",
			p.Domain, p.Field, p.Kind, p.Expression, p.Confidence, p.Hits, verified)
	}
	return nil
}

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Attempts.Stats(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(deps.Stdout, "No parse attempts recorded yet.")
		return nil
	}
	for _, s := range stats {
		fmt.Fprintf(deps.Stdout, "%-16s attempts=%d success=%.0f%% confidence=%.2f duration=%s\n",
			s.Parser, s.Attempts, s.SuccessRate()*100, s.AvgConfidence, s.AvgDuration)
	}
	return nil
}
