package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docengine/cmd/docengine/commands"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docengine"),
		kong.Description("Documentation content engine: slugs, navigation, paging and search over a Markdown tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{Out: os.Stdout}, cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
