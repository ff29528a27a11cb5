package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/apidocs/cmd/apidocs/commands"
	"git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("apidocs"),
		kong.Description("Generate MDX API reference pages from OpenAPI documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(commands.NewGlobal(ctx, slog.Default(), os.Stdout), cli)
	cancel()

	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
