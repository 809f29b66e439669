package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds router configuration
type Config struct {
	Handler      *Handler
	CORSOrigins  []string
	AccessLogger *zerolog.Logger
	Timeout      time.Duration // per-request deadline, 0 for none
}

// NewRouter creates the backend HTTP router.
func NewRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(LoggingConfig{AccessLogger: cfg.AccessLogger, SkipPaths: []string{"/health"}}))
	r.Use(Recovery)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := cfg.Handler
	r.Get("/", h.Welcome)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stocks", h.ListStocks)
		r.Get("/stocks/{ticker}", h.GetStock)
		r.Get("/search", h.Search)
	})

	return r
}
