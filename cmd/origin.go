package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type originCmd struct {
	app *App
}

func (*originCmd) Name() string     { return "origin" }
func (*originCmd) Synopsis() string { return "print the backend origin requests would go to" }
func (*originCmd) Usage() string {
	return `stocks [-hostname <host>] origin

  Prints the resolved backend origin. Use the global -hostname flag to see
  what a page served from that host would use.
`
}

func (*originCmd) SetFlags(*flag.FlagSet) {}

func (c *originCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintln(c.app.Out, c.app.Source().BaseOrigin())
	return subcommands.ExitSuccess
}
