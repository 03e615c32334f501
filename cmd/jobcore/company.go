package main

import (
	"fmt"

	"github.com/fwojciec/jobcore"
)

// Run executes the normalize command.
func (c *NormalizeCmd) Run(deps *Dependencies) error {
	for _, name := range c.Names {
		n := deps.Normalizer.Normalize(name)
		learned := ""
		if n.IsLearned {
			learned = " learned"
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\t%.2f%s\n", name, n.Canonical, n.Confidence, learned)
	}
	return nil
}

// Run executes the learn command.
func (c *LearnCmd) Run(deps *Dependencies) error {
	v, ok := deps.Normalizer.Learn(jobcore.LearnRequest{
		NameA:          c.NameA,
		NameB:          c.NameB,
		TitleA:         c.TitleA,
		TitleB:         c.TitleB,
		BaseConfidence: c.Confidence,
	})
	if !ok {
		fmt.Fprintf(deps.Stdout, "Not learned: %q and %q do not look like the same company\n", c.NameA, c.NameB)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Learned %s (%.2f): %d variations\n", v.Canonical, v.Confidence, len(v.Variations))
	return nil
}
