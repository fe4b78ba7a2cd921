package commands

import (
	"fmt"

	"git.home.luguber.info/inful/texkit/internal/config"
	"git.home.luguber.info/inful/texkit/internal/scaffold"
)

// InitCmd implements the 'init' command. Clearing the sample content and
// resetting the git history are the defaults for a fresh clone; the keep
// flags opt out.
type InitCmd struct {
	Title       string `help:"Document title to stamp into the template"`
	Author      string `help:"Author name to stamp into the template"`
	KeepSamples bool   `name:"keep-samples" help:"Keep the sample introduction chapter"`
	KeepBib     bool   `name:"keep-bib" help:"Keep the sample bibliography entries"`
	NoGitReset  bool   `name:"no-git-reset" help:"Keep the template's git history"`
	Yes         bool   `short:"y" help:"Accepted for automation recipes; init never prompts"`
	Force       bool   `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.WriteSample(root.Config, i.Force); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", root.Config)

	result := scaffold.Run(scaffold.Options{
		Title:      i.Title,
		Author:     i.Author,
		ClearIntro: !i.KeepSamples,
		ClearBib:   !i.KeepBib,
		ResetGit:   !i.NoGitReset,
	})

	for _, step := range result.Steps {
		if step.Err != nil {
			fmt.Printf("  ✗ %s: %v\n", step.Name, step.Err)
		} else {
			fmt.Printf("  ✓ %s\n", step.Name)
		}
	}

	if !result.Succeeded() {
		return fmt.Errorf("init completed with errors")
	}
	return nil
}
