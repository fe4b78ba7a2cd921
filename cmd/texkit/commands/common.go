package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texkit/internal/config"
	"git.home.luguber.info/inful/texkit/internal/history"
	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"texkit.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Compile the document to PDF"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild automatically on source changes"`
	Lint    LintCmd    `cmd:"" help:"Run style checkers over all source files"`
	Clean   CleanCmd   `cmd:"" help:"Remove auxiliary build files"`
	Init    InitCmd    `cmd:"" help:"Personalize a freshly cloned template"`
	Setup   SetupCmd   `cmd:"" help:"Prepare the build environment"`
	Check   CheckCmd   `cmd:"" help:"Self-test the build environment end to end"`
	History HistoryCmd `cmd:"" help:"Show recent build history"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ensureSandbox verifies the container runtime before any sandboxed
// toolchain invocation so the user gets remediation advice instead of a
// raw subprocess failure.
func ensureSandbox(ctx context.Context, sandbox bool) error {
	if !sandbox {
		return nil
	}
	if installed, _ := toolchain.CheckDockerInstalled(ctx); !installed {
		return fmt.Errorf("docker not found in PATH; install Docker or set engine.mode: local in %s", config.DefaultFile)
	}
	if !toolchain.CheckDockerAvailable(ctx) {
		return fmt.Errorf("docker daemon not reachable; start it and retry, or set engine.mode: local")
	}
	return nil
}

// openHistory opens the build history store, or returns nil when history
// is disabled. Failure to open is logged, not fatal; builds work without
// history.
func openHistory(cfg *config.Config) *history.Store {
	if cfg.History.Disabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("build history unavailable", logfields.Path(cfg.History.Path), logfields.Error(err))
		return nil
	}
	return store
}
