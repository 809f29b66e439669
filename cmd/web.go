package cmd

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/google/subcommands"

	"stock-positions/origin"
	"stock-positions/query"
	"stock-positions/web"
)

const shutdownTimeout = 10 * time.Second

type webCmd struct {
	app  *App
	addr string
}

func (*webCmd) Name() string     { return "web" }
func (*webCmd) Synopsis() string { return "run the web frontend" }
func (*webCmd) Usage() string {
	return `stocks web [-addr <addr>]

  Serves the /stocks and /stocks/{ticker} pages. Pages served from localhost
  or 127.0.0.1 read the local backend, any other host the production one.
`
}

func (c *webCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (default from STOCKS_WEB_ADDR)")
}

func (c *webCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.app.Config
	addr := c.addr
	if addr == "" {
		addr = cfg.Web.Addr
	}

	resolver := origin.NewResolver(cfg.Origins.Local, cfg.Origins.Production, nil)
	pages := web.NewServer(c.app.Client(), resolver, query.New(cfg.Web.StaleTime))

	access := accessLogger(cfg)
	srv := &http.Server{
		Addr:         addr,
		Handler:      pages.Routes(&access),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := listenAndServe(ctx, srv, "web"); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}
