package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/texkit/internal/check"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	TestDoc     string `name:"test-doc" help:"Compile this document instead of the built-in minimal one"`
	SkipCompile bool   `name:"skip-compile" help:"Skip the compile probe"`
	Local       bool   `help:"Probe the local toolchain instead of the container"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sandbox := cfg.Engine.Sandboxed() && !c.Local
	if err := ensureSandbox(ctx, sandbox); err != nil {
		return err
	}

	report := check.Run(ctx, toolchain.NewRunner(), check.Options{
		Sandbox:     sandbox,
		Image:       cfg.Engine.Image,
		Timeout:     cfg.Engine.LintTimeout.Std(),
		TestDoc:     c.TestDoc,
		SkipCompile: c.SkipCompile,
	})

	for _, item := range report.Items {
		mark := "✓"
		if !item.OK {
			mark = "✗"
		}
		fmt.Printf("  %s %s: %s\n", mark, item.Name, item.Detail)
	}

	if !report.Passed() {
		return fmt.Errorf("environment self-test failed")
	}
	fmt.Println("All checks passed")
	return nil
}
