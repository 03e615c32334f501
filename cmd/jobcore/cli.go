package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/bloom"
	"github.com/fwojciec/jobcore/pipeline"
	"github.com/fwojciec/jobcore/sqlite"
	"github.com/fwojciec/jobcore/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config yaml.Config

	Pipeline   *pipeline.Pipeline
	Segmenter  jobcore.Segmenter
	Normalizer jobcore.CompanyNormalizer
	Detector   jobcore.DuplicateDetector
	Fetcher    jobcore.Fetcher
	Seen       *bloom.Filter
	Patterns   *sqlite.PatternStore
	Attempts   *sqlite.AttemptTracker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log at debug level"`
	DB      string `help:"SQLite database path (default $JOBCORE_DB or ~/.jobcore/jobcore.db)"`
	Config  string `help:"YAML config path (default $JOBCORE_CONFIG)"`

	Parse     ParseCmd     `cmd:"" help:"Extract a job record from a posting"`
	Segment   SegmentCmd   `cmd:"" help:"Split posting text into typed sections"`
	Normalize NormalizeCmd `cmd:"" help:"Print the canonical form of company names"`
	Learn     LearnCmd     `cmd:"" help:"Record two company names as the same company"`
	Check     CheckCmd     `cmd:"" help:"Check a record against candidate records"`
	Cluster   ClusterCmd   `cmd:"" help:"Group duplicate records"`
	Patterns  PatternsCmd  `cmd:"" help:"List learned extraction patterns"`
	Stats     StatsCmd     `cmd:"" help:"Show parser success statistics"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	URL        string `arg:"" help:"Posting URL"`
	File       string `short:"f" help:"Read the document from a file instead of fetching the URL (- for stdin)"`
	Candidates string `short:"c" help:"JSON file of existing records to check for duplicates"`
	JSON       bool   `help:"Print the full result as JSON"`
}

// SegmentCmd is the "segment" subcommand.
type SegmentCmd struct {
	File string `arg:"" help:"Text or markdown file (- for stdin)"`
	JSON bool   `help:"Print the document as JSON"`
}

// NormalizeCmd is the "normalize" subcommand.
type NormalizeCmd struct {
	Names []string `arg:"" help:"Company names"`
}

// LearnCmd is the "learn" subcommand.
type LearnCmd struct {
	NameA      string  `arg:"" help:"First company name"`
	NameB      string  `arg:"" help:"Second company name"`
	TitleA     string  `help:"Posting title the first name came from"`
	TitleB     string  `help:"Posting title the second name came from"`
	Confidence float64 `default:"0.9" help:"Base confidence of the observation"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Record     string `arg:"" help:"JSON file with one record"`
	Candidates string `arg:"" help:"JSON file with candidate records"`
}

// ClusterCmd is the "cluster" subcommand.
type ClusterCmd struct {
	Records string `arg:"" help:"JSON file with records"`
}

// PatternsCmd is the "patterns" subcommand.
type PatternsCmd struct {
	Domain string `arg:"" optional:"" help:"Limit to one domain"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
