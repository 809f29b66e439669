// Package ingest turns catalog entries, curated profiles and live quotes into
// the summary and detail records the API serves.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"stock-positions/loader"
	"stock-positions/models"
	"stock-positions/quotes"
	"stock-positions/search"
)

const (
	// DefaultWorkers bounds concurrent quote fetches.
	DefaultWorkers = 4
	// DefaultExchange is preferred when a symbol is listed more than once,
	// and assumed for tickers outside the catalog.
	DefaultExchange = "NSE"
)

var (
	ErrUnknownTicker    = errors.New("unknown ticker")
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Finder resolves a symbol to its catalog entry. search.SearchEngine
// implementations satisfy it.
type Finder interface {
	GetStock(symbol, exchange string) *models.Stock
}

// Service is safe for concurrent use; it holds no mutable state.
type Service struct {
	catalog  []models.Stock
	finder   Finder
	profiles map[string]loader.Profile
	quotes   quotes.Provider
	workers  int
}

// NewService builds a Service over catalog. finder resolves detail lookups;
// nil scans catalog in memory.
func NewService(catalog []models.Stock, finder Finder, profiles map[string]loader.Profile, provider quotes.Provider, workers int) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if finder == nil {
		finder = search.NewInMemoryEngine(catalog)
	}
	if profiles == nil {
		profiles = map[string]loader.Profile{}
	}
	return &Service{
		catalog:  catalog,
		finder:   finder,
		profiles: profiles,
		quotes:   provider,
		workers:  workers,
	}
}

// Lookup finds a tracked stock by ticker, ignoring case. A symbol listed on
// several exchanges resolves to its DefaultExchange listing when there is one.
func (s *Service) Lookup(ticker string) (models.Stock, bool) {
	stock := s.finder.GetStock(ticker, DefaultExchange)
	if stock == nil {
		return models.Stock{}, false
	}
	return *stock, true
}

// Summaries quotes every tracked stock and returns the summaries in catalog
// order. Stocks whose quote cannot be fetched are left out.
func (s *Service) Summaries(ctx context.Context) ([]models.StockSummary, error) {
	results := make([]*models.StockSummary, len(s.catalog))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, stock := range s.catalog {
		g.Go(func() error {
			q, err := s.quotes.Quote(gctx, stock)
			if err != nil {
				log.Warn().Err(err).Str("ticker", stock.Symbol).Msg("skipping stock without quote")
				return nil
			}
			summary := newSummary(stock, q)
			results[i] = &summary
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := make([]models.StockSummary, 0, len(results))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries, nil
}

// Detail builds the full record for one ticker. A ticker outside the catalog
// is looked up on DefaultExchange and served from its quote alone; when no
// provider knows it either, the error is ErrUnknownTicker.
func (s *Service) Detail(ctx context.Context, ticker string) (*models.StockDetail, error) {
	stock, tracked := s.Lookup(ticker)
	if !tracked {
		stock = models.Stock{Symbol: strings.ToUpper(ticker), Exchange: DefaultExchange, Type: "Stock"}
	}

	q, err := s.quotes.Quote(ctx, stock)
	if err != nil {
		if !tracked {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnknownTicker, ticker, err)
		}
		return nil, fmt.Errorf("%w for %s: %w", ErrQuoteUnavailable, stock.Symbol, err)
	}

	profile := s.profiles[strings.ToUpper(stock.Symbol)]
	detail := &models.StockDetail{
		Description: models.Description{
			Name:  displayName(stock, q),
			About: profile.About,
		},
		BasicInfo: basicInfo(stock, q),
		ProsAndCons: models.ProsAndCons{
			Pros: nonNil(profile.Pros),
			Cons: nonNil(profile.Cons),
		},
		TopNews: profile.News,
	}
	if detail.TopNews == nil {
		detail.TopNews = []models.NewsItem{}
	}
	return detail, nil
}

func newSummary(stock models.Stock, q *quotes.Quote) models.StockSummary {
	return models.StockSummary{
		Ticker:       stock.Symbol,
		Description:  models.Description{Name: displayName(stock, q)},
		CurrentPrice: q.Price,
		PriceChange: models.PriceChange{
			AmountChange:  models.NewNumber(q.Change.Round(2)),
			PercentChange: models.NewNumber(q.ChangePercent.Round(2)),
		},
		BasicInfo: basicInfo(stock, q),
	}
}

// The catalog name is curated, so it wins over the provider's.
func displayName(stock models.Stock, q *quotes.Quote) string {
	if stock.Name != "" {
		return stock.Name
	}
	if q.Name != "" {
		return q.Name
	}
	return stock.Symbol
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
