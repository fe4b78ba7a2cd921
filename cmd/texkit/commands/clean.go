package commands

import (
	"fmt"

	"git.home.luguber.info/inful/texkit/internal/clean"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	All      bool   `help:"Also remove built PDFs, emptying the output directory"`
	DryRun   bool   `name:"dry-run" help:"Only show what would be removed"`
	BuildDir string `name:"build-dir" help:"Output directory to clean; overrides config"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	buildDir := cfg.Output.Directory
	if c.BuildDir != "" {
		buildDir = c.BuildDir
	}

	opts := clean.Options{All: c.All, DryRun: c.DryRun}
	plan, err := clean.BuildPlan(buildDir, opts)
	if err != nil {
		return err
	}

	// Stray aux files next to the sources are cleaned too, but --all never
	// touches the source tree.
	srcPlan, err := clean.BuildPlan(cfg.Source.Dir, clean.Options{DryRun: c.DryRun})
	if err != nil {
		return err
	}
	plan.Entries = append(plan.Entries, srcPlan.Entries...)
	plan.TotalSize += srcPlan.TotalSize

	if len(plan.Entries) == 0 {
		fmt.Println("Nothing to clean")
		return nil
	}

	for _, entry := range plan.Entries {
		fmt.Printf("  %s (%s)\n", entry.Path, clean.FormatSize(entry.Size))
	}

	removed, failed := clean.Execute(plan, opts)
	if c.DryRun {
		fmt.Printf("Would remove %d entries, %s total\n", removed, clean.FormatSize(plan.TotalSize))
		return nil
	}

	fmt.Printf("Removed %d entries, %s freed\n", removed, clean.FormatSize(plan.TotalSize))
	if failed > 0 {
		return fmt.Errorf("%d entries could not be removed", failed)
	}
	return nil
}
