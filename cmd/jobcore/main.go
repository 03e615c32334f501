package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/sqlite"
	"github.com/fwojciec/jobcore/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Config file path. Empty means built-in defaults.
	ConfigPath string

	// SQLite database used by the pattern, variation and attempt stores.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher used by "parse" for URLs.
	Fetcher jobcore.Fetcher

	// Stdin is read by commands given "-" as a file.
	Stdin io.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: os.Getenv("JOBCORE_CONFIG"),
		Stdin:      os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobcore"),
		kong.Description("Extract, segment and deduplicate job postings."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobcore --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cli.Config != "" {
		m.ConfigPath = cli.Config
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := yaml.LoadConfig(m.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set JOBCORE_CONFIG to use a different config file\n")
		return fmt.Errorf("failed to load config %q: %w", m.ConfigPath, err)
	}
	deps.Config = cfg

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set JOBCORE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	if err := wire(ctx, deps, m.DB); err != nil {
		return err
	}

	if cmd == "parse" {
		deps.Fetcher = m.Fetcher
		if deps.Fetcher == nil {
			deps.Fetcher = newFetcher(deps.Logger)
		}
		defer deps.Fetcher.Close()
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("JOBCORE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobcore.db"
	}
	dir := filepath.Join(home, ".jobcore")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "jobcore.db")
}
