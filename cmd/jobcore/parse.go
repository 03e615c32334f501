package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/pipeline"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	document, err := c.document(deps)
	if err != nil {
		return fail(deps, err)
	}

	var candidates []jobcore.JobRecord
	if c.Candidates != "" {
		if candidates, err = readRecords(deps, c.Candidates); err != nil {
			return fail(deps, err)
		}
	}
	if deps.Seen != nil {
		for _, r := range candidates {
			deps.Seen.Add(jobcore.CanonicalURL(r.SourceURL))
		}
	}

	res, err := deps.Pipeline.Process(deps.Ctx, jobcore.Input{URL: c.URL, Document: document}, candidates)
	if err != nil {
		return fail(deps, err)
	}

	if c.JSON {
		return writeJSON(deps.Stdout, res)
	}
	printResult(deps.Stdout, res)
	return nil
}

func (c *ParseCmd) document(deps *Dependencies) (string, error) {
	if c.File != "" {
		return readInput(deps, c.File)
	}
	if deps.Fetcher == nil {
		return "", jobcore.Errorf(jobcore.EINVALID, "no fetcher configured")
	}
	return deps.Fetcher.Fetch(deps.Ctx, c.URL)
}

func printResult(w io.Writer, res *pipeline.Result) {
	rec := res.Record
	fmt.Fprintf(w, "Parser:      %s (%s, ceiling %.2f)\n", rec.Parser, rec.Method, rec.ParserConfidence)
	fmt.Fprintf(w, "Confidence:  %.2f\n", rec.Confidence)
	fmt.Fprintf(w, "Platform:    %s\n", rec.Platform)
	if rec.PlatformJobID != "" {
		fmt.Fprintf(w, "Job ID:      %s\n", rec.PlatformJobID)
	}
	printField(w, "Title", rec.Title.Value, rec.Title.Confidence)
	company := rec.Company.Value
	if res.Company != nil && res.Company.Canonical != "" && res.Company.Canonical != company {
		company += " => " + res.Company.Canonical
	}
	printField(w, "Company", company, rec.Company.Confidence)
	printField(w, "Location", rec.Location.Value, rec.Location.Confidence)
	if rec.Remote.Set() {
		printField(w, "Remote", fmt.Sprint(rec.Remote.Value), rec.Remote.Confidence)
	}
	if rec.Salary.Set() {
		printField(w, "Salary", rec.Salary.Value.Text, rec.Salary.Confidence)
	}
	if rec.PostedAt.Set() {
		printField(w, "Posted", rec.PostedAt.Value.Format("2006-01-02"), rec.PostedAt.Confidence)
	}
	printField(w, "Description", fmt.Sprintf("%d chars", len([]rune(rec.Description.Value))), rec.Description.Confidence)

	if res.Document != nil {
		var types []string
		for _, s := range res.Document.Sections {
			types = append(types, string(s.Type))
		}
		fmt.Fprintf(w, "Sections:    %s (quality %.2f)\n", strings.Join(types, ", "), res.Document.Quality.Overall)
	}
	if res.Verdict != nil {
		fmt.Fprintf(w, "Duplicate:   %s (%s, score %.2f)\n", res.Verdict.Action, res.Verdict.Method, res.Verdict.Score)
	}
	if res.Reprocessed {
		fmt.Fprintln(w, "Note:        URL was seen before")
	}
	if res.TimedOut {
		fmt.Fprintln(w, "Note:        parser budget expired, generic parser answered")
	}
	for _, v := range rec.Validation {
		if !v.Passed {
			fmt.Fprintf(w, "Failed rule: %s (%s)\n", v.Rule, v.Field)
		}
	}
}

func printField(w io.Writer, label, value string, confidence float64) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-12s %s (%.2f)\n", label+":", value, confidence)
}
