// Package search finds catalog stocks by symbol, name or brand.
package search

import (
	"sort"
	"strings"

	"stock-positions/models"
)

type SearchEngine interface {
	Search(query string) []models.Stock
	GetBySymbol(symbol string) *models.Stock
	GetStock(symbol, exchange string) *models.Stock
}

// InMemoryEngine scans the catalog linearly. Enough for a handful of
// tracked tickers and for tests.
type InMemoryEngine struct {
	stocks []models.Stock
}

func NewInMemoryEngine(stocks []models.Stock) *InMemoryEngine {
	return &InMemoryEngine{stocks: stocks}
}

// Search matches a symbol prefix or a substring of the name or brand,
// most popular first.
func (e *InMemoryEngine) Search(query string) []models.Stock {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []models.Stock
	for _, stock := range e.stocks {
		if strings.HasPrefix(strings.ToLower(stock.Symbol), q) ||
			strings.Contains(strings.ToLower(stock.Name), q) ||
			(stock.Brand != "" && strings.Contains(strings.ToLower(stock.Brand), q)) {
			results = append(results, stock)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PopularityScore > results[j].PopularityScore
	})
	return results
}

func (e *InMemoryEngine) GetBySymbol(symbol string) *models.Stock {
	for i := range e.stocks {
		if strings.EqualFold(e.stocks[i].Symbol, symbol) {
			stock := e.stocks[i]
			return &stock
		}
	}
	return nil
}

func (e *InMemoryEngine) GetStock(symbol, exchange string) *models.Stock {
	for i := range e.stocks {
		if strings.EqualFold(e.stocks[i].Symbol, symbol) && strings.EqualFold(e.stocks[i].Exchange, exchange) {
			stock := e.stocks[i]
			return &stock
		}
	}
	// Fallback to GetBySymbol if exchange doesn't match
	return e.GetBySymbol(symbol)
}
