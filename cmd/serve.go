package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stock-positions/api"
	"stock-positions/config"
	"stock-positions/ingest"
	"stock-positions/loader"
	"stock-positions/logger"
	"stock-positions/models"
	"stock-positions/quotes"
	"stock-positions/search"
)

type serveCmd struct {
	app  *App
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the backend API" }
func (*serveCmd) Usage() string {
	return `stocks serve [-addr <addr>]

  Serves /api/stocks, /api/stocks/{ticker} and /api/search over the catalog
  configured with STOCKS_CATALOG, STOCKS_PROFILES and STOCKS_BRANDS.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (default from STOCKS_ADDR)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.app.Config
	addr := c.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	handler, closeFn, err := NewBackend(cfg)
	if err != nil {
		return c.app.fail(err)
	}
	defer closeFn()

	access := accessLogger(cfg)
	srv := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(&api.Config{
			Handler:      handler,
			CORSOrigins:  cfg.Server.CORSOrigins,
			AccessLogger: &access,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := listenAndServe(ctx, srv, "backend"); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

// NewBackend loads the catalog, profiles and brands from cfg and wires the
// quote providers, search index and ingest service into an API handler.
// The returned function closes the search index.
func NewBackend(cfg *config.Config) (*api.Handler, func() error, error) {
	catalog, err := loadCatalog(cfg.Data)
	if err != nil {
		return nil, nil, err
	}

	var profiles map[string]loader.Profile
	if cfg.Data.ProfilesPath != "" {
		profiles, err = loader.LoadProfiles(cfg.Data.ProfilesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load profiles: %w", err)
		}
	}

	chain, err := quotes.FromNames(cfg.Data.QuoteProviders, &http.Client{Timeout: cfg.Client.Timeout})
	if err != nil {
		return nil, nil, err
	}

	engine, err := search.NewBleveEngine(cfg.Data.IndexPath, catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize search engine: %w", err)
	}

	log.Info().
		Int("stocks", len(catalog)).
		Int("profiles", len(profiles)).
		Str("quotes", chain.Name()).
		Msg("backend ready")

	svc := ingest.NewService(catalog, engine, profiles, chain, cfg.Server.QuoteWorkers)
	return api.NewHandler(svc, engine), engine.Close, nil
}

func loadCatalog(cfg config.DataConfig) ([]models.Stock, error) {
	catalog := loader.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		catalog, err = loader.LoadStocks(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	if cfg.BrandsPath != "" {
		brands, err := loader.LoadBrandMappings(cfg.BrandsPath)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load brand mappings")
		} else {
			loader.ApplyBrands(catalog, brands)
		}
	}
	return catalog, nil
}

func accessLogger(cfg *config.Config) zerolog.Logger {
	if !cfg.Logging.FileEnabled {
		return log.Logger
	}
	return logger.NewAccessLogger(cfg.Logging.FilePath, 50, 7)
}

// listenAndServe runs srv until ctx is done, then shuts it down.
func listenAndServe(ctx context.Context, srv *http.Server, name string) error {
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msgf("%s listening", name)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msgf("shutting down %s", name)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
