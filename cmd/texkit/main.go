package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texkit/cmd/texkit/commands"
	"git.home.luguber.info/inful/texkit/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("texkit"),
		kong.Description("Build, lint and watch LaTeX documents with a pinned toolchain."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("texkit %s (commit %s, built %s)", version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
