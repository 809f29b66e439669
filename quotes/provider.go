// Package quotes fetches current prices for catalog stocks.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stock-positions/models"
)

// ErrNoQuote is returned when a provider has nothing for a symbol.
var ErrNoQuote = errors.New("no quote")

// Quote is a point-in-time price for a stock.
type Quote struct {
	Symbol           string
	Name             string
	Currency         string
	Exchange         string
	Price            decimal.Decimal
	PreviousClose    decimal.Decimal
	Change           decimal.Decimal
	ChangePercent    decimal.Decimal
	MarketCap        int64 // in major currency units, 0 when unknown
	TrailingPE       float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
	Source           string
}

// fillChange computes Change and ChangePercent from Price and PreviousClose
// when the provider did not supply them.
func (q *Quote) fillChange() {
	if q.Change.IsZero() && !q.PreviousClose.IsZero() {
		q.Change = q.Price.Sub(q.PreviousClose)
	}
	if q.ChangePercent.IsZero() && !q.PreviousClose.IsZero() {
		q.ChangePercent = q.Change.Div(q.PreviousClose).Mul(decimal.NewFromInt(100))
	}
}

// Provider is a source of quotes.
type Provider interface {
	Name() string
	Quote(ctx context.Context, stock models.Stock) (*Quote, error)
}

// YahooSymbol maps a catalog stock to the Yahoo Finance symbol:
// ".NS" for NSE (the default), ".BO" for BSE, unchanged for other exchanges.
func YahooSymbol(stock models.Stock) string {
	switch strings.ToUpper(stock.Exchange) {
	case "BSE":
		return stock.Symbol + ".BO"
	case "NSE", "":
		return stock.Symbol + ".NS"
	}
	return stock.Symbol
}

// Chain asks each provider in turn and returns the first quote.
type Chain []Provider

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}

func (c Chain) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w for %s: no provider configured", ErrNoQuote, stock.Symbol)
	}
	var errs []error
	for _, p := range c {
		q, err := p.Quote(ctx, stock)
		if err == nil {
			return q, nil
		}
		log.Warn().Err(err).Str("provider", p.Name()).Str("symbol", stock.Symbol).Msg("quote provider failed, falling back")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

// FromNames builds a Chain from provider names: "financego", "yahoo",
// "angelone" (credentials from the environment) and "mock".
func FromNames(names []string, hc *http.Client) (Chain, error) {
	var chain Chain
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "financego":
			chain = append(chain, FinanceGo{})
		case "yahoo":
			chain = append(chain, NewYahooChart(hc))
		case "angelone":
			chain = append(chain, NewAngelOne(EnvCredentials{}, hc))
		case "mock":
			chain = append(chain, Mock{})
		default:
			return nil, fmt.Errorf("unknown quote provider %q", name)
		}
	}
	return chain, nil
}
