package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"stock-positions/render"
)

type searchCmd struct {
	app *App
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search the backend catalog by symbol, name or brand" }
func (*searchCmd) Usage() string {
	return `stocks search <query>
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q := strings.TrimSpace(strings.Join(f.Args(), " "))
	if q == "" {
		fmt.Fprintln(c.app.Err, "search requires a query")
		return subcommands.ExitUsageError
	}

	results, err := c.app.Client().SearchStocks(ctx, q)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printMarkdown(render.SearchResults(q, results))
	return subcommands.ExitSuccess
}
