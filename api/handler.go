// Package api serves the stock list, stock detail and search endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"stock-positions/ingest"
	"stock-positions/models"
	"stock-positions/search"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to the Stock Market Positions Alerts API"

// StockService produces the list and detail payloads.
type StockService interface {
	Summaries(ctx context.Context) ([]models.StockSummary, error)
	Detail(ctx context.Context, ticker string) (*models.StockDetail, error)
}

type Handler struct {
	Stocks StockService
	Engine search.SearchEngine
}

func NewHandler(stocks StockService, engine search.SearchEngine) *Handler {
	return &Handler{Stocks: stocks, Engine: engine}
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ListStocks handles GET /api/stocks.
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Stocks.Summaries(r.Context())
	if err != nil {
		Error(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetStock handles GET /api/stocks/{ticker}.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	ticker, err := TickerParam(r)
	if err != nil {
		Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error())
		return
	}

	detail, err := h.Stocks.Detail(r.Context(), ticker)
	switch {
	case errors.Is(err, ingest.ErrUnknownTicker):
		Error(w, r, http.StatusNotFound, ErrCodeNotFound, "Stock not found")
		return
	case errors.Is(err, ingest.ErrQuoteUnavailable):
		Error(w, r, http.StatusBadGateway, ErrCodeExternalAPIError, err.Error())
		return
	case err != nil:
		Error(w, r, http.StatusInternalServerError, ErrCodeInternalServer, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, "Missing query parameter 'q'")
		return
	}

	results := h.Engine.Search(query)
	if results == nil {
		results = []models.Stock{}
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
