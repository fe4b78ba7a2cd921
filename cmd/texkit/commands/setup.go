package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/texkit/internal/setup"
)

// SetupCmd implements the 'setup' command.
type SetupCmd struct {
	Local    bool `help:"Verify a local toolchain instead of the container runtime"`
	Pull     bool `help:"Pull the image even when it is already present"`
	SkipPull bool `name:"skip-pull" help:"Check for the image without pulling it"`
}

func (s *SetupCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	result := setup.Run(context.Background(), setup.Options{
		Image:     cfg.Engine.Image,
		Local:     s.Local || !cfg.Engine.Sandboxed(),
		SkipPull:  s.SkipPull,
		ForcePull: s.Pull,
	})

	for _, step := range result.Steps {
		mark := "✓"
		if !step.OK {
			mark = "✗"
		}
		fmt.Printf("  %s %s: %s\n", mark, step.Name, step.Detail)
	}

	if !result.Succeeded() {
		return fmt.Errorf("setup incomplete")
	}
	fmt.Println("Environment ready")
	return nil
}
