package cmd

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/google/subcommands"

	"stock-positions/render"
)

type listCmd struct {
	app  *App
	json bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the tracked stocks with price, change and market cap" }
func (*listCmd) Usage() string {
	return `stocks list [-json]

  Fetches the stock list from the backend and prints it as a table.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the backend JSON instead of a table")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stocks, err := c.app.Client().ListStocks(ctx)
	if err != nil {
		return c.app.fail(err)
	}

	if c.json {
		enc := json.NewEncoder(c.app.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stocks); err != nil {
			return c.app.fail(err)
		}
		return subcommands.ExitSuccess
	}

	c.app.printMarkdown(render.StockList(stocks, render.ListOptions{}))
	return subcommands.ExitSuccess
}
