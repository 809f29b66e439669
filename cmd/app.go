// Package cmd implements the stocks command line: browsing the backend from
// a terminal and running the backend and web servers.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"stock-positions/client"
	"stock-positions/config"
	"stock-positions/origin"
	"stock-positions/render"
)

// RawMarkdown as -style prints markdown without terminal rendering.
const RawMarkdown = "markdown"

// App carries the configuration and the global flags shared by every
// subcommand.
type App struct {
	Config *config.Config

	Origin   string        // fixed backend origin, skips resolution
	Hostname string        // simulated page hostname
	Timeout  time.Duration // HTTP timeout, config value when 0
	Style    string        // glamour style or RawMarkdown
	Width    int

	Out io.Writer
	Err io.Writer
}

// NewApp returns an App writing to stdout and stderr.
func NewApp(cfg *config.Config) *App {
	return &App{Config: cfg, Style: "auto", Width: 100, Out: os.Stdout, Err: os.Stderr}
}

// SetFlags registers the global flags.
func (a *App) SetFlags(f *flag.FlagSet) {
	f.StringVar(&a.Origin, "origin", "", "Backend origin to use instead of resolving one, e.g. http://localhost:8000")
	f.StringVar(&a.Hostname, "hostname", "", "Resolve the origin as a page served from this hostname would")
	f.DurationVar(&a.Timeout, "timeout", 0, "HTTP timeout for backend requests (default from STOCKS_HTTP_TIMEOUT)")
	f.StringVar(&a.Style, "style", a.Style, "Terminal style: auto, dark, light, notty, ascii, or markdown for raw output")
	f.IntVar(&a.Width, "width", a.Width, "Word wrap width, 0 to disable")
}

// Register the subcommands.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&listCmd{app: app}, "stocks")
	c.Register(&showCmd{app: app}, "stocks")
	c.Register(&searchCmd{app: app}, "stocks")
	c.Register(&originCmd{app: app}, "stocks")

	c.Register(&serveCmd{app: app}, "servers")
	c.Register(&webCmd{app: app}, "servers")
}

// Source returns where backend requests go: the -origin flag when set,
// otherwise the resolver bound to -hostname or to the hostname environment
// variable.
func (a *App) Source() origin.Source {
	if a.Origin != "" {
		return origin.Fixed(a.Origin)
	}
	var ctx origin.ExecutionContext = origin.Headless{}
	switch {
	case a.Hostname != "":
		ctx = origin.Page{Hostname: a.Hostname}
	case a.Config.Origins.HostnameEnv != "":
		ctx = &origin.EnvContext{Key: a.Config.Origins.HostnameEnv}
	}
	return origin.NewResolver(a.Config.Origins.Local, a.Config.Origins.Production, ctx)
}

// Client returns a backend client for Source.
func (a *App) Client() *client.Client {
	return client.New(a.Source(),
		client.WithTimeout(a.timeout()),
		client.WithUserAgent(a.Config.Client.UserAgent),
	)
}

func (a *App) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	if a.Config.Client.Timeout > 0 {
		return a.Config.Client.Timeout
	}
	return client.DefaultTimeout
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func (a *App) printMarkdown(md string) {
	if a.Style == RawMarkdown {
		fmt.Fprint(a.Out, md)
		return
	}
	out, err := render.Terminal(md, a.Style, a.Width)
	if err != nil {
		fmt.Fprint(a.Out, md)
		return
	}
	fmt.Fprint(a.Out, out)
}

// fail prints err the way the pages show it and returns ExitFailure.
func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprint(a.Err, render.Error(err))
	return subcommands.ExitFailure
}
