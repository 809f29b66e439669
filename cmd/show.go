package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"stock-positions/render"
)

type showCmd struct {
	app  *App
	json bool
	path string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the detail of one stock" }
func (*showCmd) Usage() string {
	return `stocks show [-json] [-path <jsonpath>] <ticker>

  Prints the description, basic info, pros and cons and top news of a stock.
  -path extracts a single value, e.g. -path '$.basic_info["Market Cap"]'.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the backend JSON instead of cards")
	f.StringVar(&c.path, "path", "", "JSONPath expression to extract from the detail")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.app.Err, "show requires exactly one ticker")
		return subcommands.ExitUsageError
	}
	ticker := f.Arg(0)

	detail, err := c.app.Client().GetStockDetail(ctx, ticker)
	if err != nil {
		return c.app.fail(err)
	}

	switch {
	case c.path != "":
		val, err := extract(detail, c.path)
		if err != nil {
			return c.app.fail(err)
		}
		fmt.Fprintln(c.app.Out, val)
	case c.json:
		enc := json.NewEncoder(c.app.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(detail); err != nil {
			return c.app.fail(err)
		}
	default:
		c.app.printMarkdown(render.StockDetail(ticker, detail))
	}
	return subcommands.ExitSuccess
}

// extract evaluates path against v's JSON form. Strings print bare, other
// values as JSON.
func extract(v any, path string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return "", err
	}

	val, err := jsonpath.Get(path, obj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	out, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
