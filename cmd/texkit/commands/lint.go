package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/texkit/internal/lint"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	File      string `help:"Lint a single file instead of the whole source tree"`
	Strict    bool   `help:"Exit non-zero on any finding, not just checker failures"`
	Lacheck   bool   `help:"Also run lacheck on every file"`
	Local     bool   `help:"Run the checkers locally instead of in the container"`
	Verbosity int    `short:"V" default:"-1" help:"chktex -v level (0-3); overrides config"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sandbox := cfg.Engine.Sandboxed() && !l.Local
	if err := ensureSandbox(ctx, sandbox); err != nil {
		return err
	}

	verbosity := cfg.Lint.VerbosityLevel()
	if l.Verbosity >= 0 {
		verbosity = l.Verbosity
	}
	strict := l.Strict || cfg.Lint.Strict

	linter := lint.New(toolchain.NewRunner(), lint.Options{
		Verbosity: verbosity,
		Strict:    strict,
		Lacheck:   l.Lacheck || cfg.Lint.Lacheck,
		Sandbox:   sandbox,
		Image:     cfg.Engine.Image,
		Timeout:   cfg.Engine.LintTimeout.Std(),
	})

	var summary *lint.Summary
	if l.File != "" {
		summary = linter.Files(ctx, []string{l.File})
	} else {
		summary, err = linter.Run(ctx, cfg.Source.Dir)
		if err != nil {
			return err
		}
	}

	fmt.Print(lint.FormatSummary(summary))

	if summary.Failures > 0 {
		return fmt.Errorf("%d checker(s) failed to run", summary.Failures)
	}
	if strict && summary.Total > 0 {
		return fmt.Errorf("%d finding(s) in strict mode", summary.Total)
	}
	return nil
}
