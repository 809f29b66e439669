package quotes

import (
	"context"

	"github.com/shopspring/decimal"

	"stock-positions/models"
)

// Mock derives a stable fake quote from the symbol. It never fails, so it is
// the usual last link of a Chain.
type Mock struct{}

func (Mock) Name() string { return "mock" }

func (Mock) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(stock.Symbol)
	price := decimal.NewFromFloat(1000.0 + float64(n)*10.5)

	fluctuation := decimal.NewFromFloat(float64(n%5) * 2.0)
	if n%2 == 0 {
		fluctuation = fluctuation.Neg()
	}
	high, _ := price.Mul(decimal.NewFromFloat(1.2)).Float64()
	low, _ := price.Mul(decimal.NewFromFloat(0.8)).Float64()
	q := &Quote{
		Symbol:           stock.Symbol,
		Name:             stock.Name,
		Currency:         "INR",
		Exchange:         stock.Exchange,
		Price:            price,
		PreviousClose:    price.Sub(fluctuation),
		MarketCap:        price.Mul(decimal.NewFromInt(1_000_000_000)).IntPart(),
		TrailingPE:       float64(20 + n),
		FiftyTwoWeekHigh: high,
		FiftyTwoWeekLow:  low,
		Source:           "mock",
	}
	q.fillChange()
	return q, nil
}
