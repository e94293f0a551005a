package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/dulynoted/cmd/dulynoted/commands"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	ctx := kong.Parse(cli,
		kong.Name("dulynoted"),
		kong.Description("Generate cross-linked documentation from anchor and link tags in source comments."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(global, cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, nil).Handle(err))
}
