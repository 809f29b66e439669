// Package web serves the stock list and detail pages. Every page fetches
// from the backend through the client, with the backend origin resolved
// from the page's own host.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stock-positions/api"
	"stock-positions/client"
	"stock-positions/models"
	"stock-positions/origin"
	"stock-positions/query"
	"stock-positions/render"
)

//go:embed templates/layout.html
var layoutFS embed.FS

var layout = template.Must(template.ParseFS(layoutFS, "templates/layout.html"))

const linkBase = "/stocks/"

type Server struct {
	client   *client.Client
	resolver *origin.Resolver
	cache    *query.Cache
}

// NewServer returns a Server. The client's own origin is ignored: each
// request rebinds it to resolver with the request's host.
func NewServer(c *client.Client, resolver *origin.Resolver, cache *query.Cache) *Server {
	return &Server{client: c, resolver: resolver, cache: cache}
}

// Routes returns the page router.
func (s *Server) Routes(accessLogger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(api.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.Logging(api.LoggingConfig{AccessLogger: accessLogger}))
	r.Use(api.Recovery)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/stocks", http.StatusFound)
	})
	r.Get("/stocks", s.stockList)
	r.Get("/stocks/{ticker}", s.stockDetail)
	r.Get("/search", s.search)
	return r
}

// clientFor binds the client to the origin the page at r would use.
func (s *Server) clientFor(r *http.Request) (*client.Client, string) {
	src := s.resolver.WithContext(origin.Request(r))
	base := src.BaseOrigin()
	return s.client.WithOrigin(origin.Fixed(base)), base
}

func (s *Server) stockList(w http.ResponseWriter, r *http.Request) {
	c, base := s.clientFor(r)
	key := query.Key{"stocks", base}
	s.refresh(r, key)
	stocks, err := query.Fetch(r.Context(), s.cache, key, c.ListStocks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, http.StatusOK, page{
		Title:      "Stocks",
		RefreshURL: "/stocks?refresh=1",
		Markdown:   render.StockList(stocks, render.ListOptions{LinkBase: linkBase}),
	})
}

func (s *Server) stockDetail(w http.ResponseWriter, r *http.Request) {
	ticker, err := api.TickerParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, base := s.clientFor(r)
	key := query.Key{"stockDetails", base, ticker}
	s.refresh(r, key)
	detail, err := query.Fetch(r.Context(), s.cache, key,
		func(ctx context.Context) (*models.StockDetail, error) {
			return c.GetStockDetail(ctx, ticker)
		})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	title := detail.Description.Name
	if title == "" {
		title = ticker
	}
	s.page(w, http.StatusOK, page{
		Title:      title,
		RefreshURL: linkBase + client.EscapeTicker(ticker) + "?refresh=1",
		Markdown:   render.StockDetail(ticker, detail),
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Redirect(w, r, "/stocks", http.StatusFound)
		return
	}

	c, base := s.clientFor(r)
	results, err := query.Fetch(r.Context(), s.cache, query.Key{"search", base, q},
		func(ctx context.Context) ([]models.Stock, error) {
			return c.SearchStocks(ctx, q)
		})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, http.StatusOK, page{Title: "Search", Query: q, Markdown: render.SearchResults(q, results)})
}

// refresh drops key from the cache when the page was requested with ?refresh.
func (s *Server) refresh(r *http.Request, key query.Key) {
	if !r.URL.Query().Has("refresh") {
		return
	}
	n := s.cache.Invalidate(key...)
	log.Debug().Strs("key", key).Int("dropped", n).Msg("page cache refreshed")
}

// fail renders err. A ticker the backend does not know is a 404, any other
// backend failure a 502.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if code, ok := client.StatusCode(err); ok && code == http.StatusNotFound {
		status = http.StatusNotFound
	}
	log.Warn().Err(err).Str("request_id", api.GetRequestID(r.Context())).Str("path", r.URL.Path).Int("status", status).Msg("page fetch failed")
	s.page(w, status, page{Title: "Error", Markdown: render.Error(err)})
}

type page struct {
	Title      string
	Query      string
	RefreshURL string
	Markdown   string
	Body       template.HTML
}

func (s *Server) page(w http.ResponseWriter, status int, p page) {
	body, err := render.HTML(p.Markdown)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// goldmark drops raw HTML unless told otherwise, so its output is safe.
	p.Body = template.HTML(body)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Execute(w, p); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}
