package quotes

import (
	"context"
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"stock-positions/models"
)

// FinanceGo reads equity quotes through piquette/finance-go.
type FinanceGo struct {
	// Get defaults to equity.Get.
	Get func(symbol string) (*finance.Equity, error)
}

func (FinanceGo) Name() string { return "financego" }

func (p FinanceGo) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	get := p.Get
	if get == nil {
		get = equity.Get
	}

	symbol := YahooSymbol(stock)
	e, err := get(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go %s: %w", symbol, err)
	}
	if e == nil || e.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoQuote, symbol)
	}

	name := e.LongName
	if name == "" {
		name = e.ShortName
	}
	q := &Quote{
		Symbol:           stock.Symbol,
		Name:             name,
		Currency:         e.CurrencyID,
		Exchange:         e.FullExchangeName,
		Price:            decimal.NewFromFloat(e.RegularMarketPrice),
		PreviousClose:    decimal.NewFromFloat(e.RegularMarketPreviousClose),
		Change:           decimal.NewFromFloat(e.RegularMarketChange),
		ChangePercent:    decimal.NewFromFloat(e.RegularMarketChangePercent),
		MarketCap:        int64(e.MarketCap),
		TrailingPE:       e.TrailingPE,
		FiftyTwoWeekHigh: e.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  e.FiftyTwoWeekLow,
		Source:           "financego",
	}
	q.fillChange()
	return q, nil
}
