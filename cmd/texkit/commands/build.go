package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/texkit/internal/builder"
	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Src          string        `help:"Main source file; overrides config"`
	Output       string        `short:"o" help:"Output directory; overrides config"`
	Draft        bool          `help:"Single fast pass without bibliography resolution"`
	ValidateOnly bool          `name:"validate-only" help:"Syntax check only; stop at the first error"`
	Local        bool          `help:"Run the toolchain locally instead of in the container"`
	Clean        bool          `help:"Clear latexmk auxiliary state before building"`
	Timeout      time.Duration `help:"Override the build timeout"`
	Image        string        `help:"Override the container image"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	sandbox := cfg.Engine.Sandboxed() && !b.Local
	source := cfg.MainPath()
	if b.Src != "" {
		source = b.Src
	}
	outputDir := cfg.Output.Directory
	if b.Output != "" {
		outputDir = b.Output
	}

	ctx := context.Background()
	if err := ensureSandbox(ctx, sandbox); err != nil {
		return err
	}

	mode := toolchain.ModeFromFlags(b.Draft, b.ValidateOnly)

	timeout := b.Timeout
	if timeout == 0 {
		timeout = cfg.Engine.Timeout()
	}
	image := b.Image
	if image == "" {
		image = cfg.Engine.Image
	}

	opts := []builder.Option{
		builder.WithImage(image),
		builder.WithTimeout(timeout),
	}
	if store := openHistory(cfg); store != nil {
		defer func() { _ = store.Close() }()
		opts = append(opts, builder.WithHistory(store))
	}

	bld := builder.New(toolchain.NewRunner(), sandbox, opts...)

	if b.Clean {
		if cleanErr := bld.Clean(ctx, source, outputDir); cleanErr != nil {
			slog.Warn("pre-build clean failed", logfields.Error(cleanErr))
		}
	}

	report, err := bld.Build(ctx, mode, source, outputDir)
	if err != nil {
		return err
	}

	printReport(report)
	if !report.Succeeded() {
		return fmt.Errorf("%s build failed", mode)
	}
	return nil
}

func printReport(report *builder.Report) {
	if report.Succeeded() {
		fmt.Printf("Build succeeded in %s (%s mode)\n", report.Result.Elapsed.Round(time.Millisecond), report.Mode)
		if report.ArtifactPath != "" {
			fmt.Printf("  %s (%d bytes)\n", report.ArtifactPath, report.ArtifactSize)
		}
		return
	}

	if report.Result.TimedOut {
		fmt.Printf("Build timed out after %s\n", report.Result.Elapsed.Round(time.Second))
	} else {
		fmt.Printf("Build failed in %s\n", report.Result.Elapsed.Round(time.Millisecond))
	}
	if len(report.Diagnostics) > 0 {
		fmt.Println(toolchain.FormatDiagnostics(report.Diagnostics))
	}
	if report.LogPath != "" {
		fmt.Printf("Check the full log at: %s\n", report.LogPath)
	}
}
