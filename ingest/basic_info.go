package ingest

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"stock-positions/models"
	"stock-positions/quotes"
)

// Basic info labels.
const (
	LabelMarketCap     = models.MarketCapLabel
	LabelCurrentPrice  = "Current Price"
	LabelPreviousClose = "Previous Close"
	LabelPE            = "P/E"
	Label52WeekHigh    = "52W High"
	Label52WeekLow     = "52W Low"
	LabelExchange      = "Exchange"
)

const defaultCurrency = money.INR

func basicInfo(stock models.Stock, q *quotes.Quote) map[string]string {
	currency := q.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	info := map[string]string{
		LabelCurrentPrice: formatMoney(q.Price, currency),
	}
	if q.MarketCap > 0 {
		info[LabelMarketCap] = formatMoney(decimal.NewFromInt(q.MarketCap), currency)
	}
	if !q.PreviousClose.IsZero() {
		info[LabelPreviousClose] = formatMoney(q.PreviousClose, currency)
	}
	if q.TrailingPE > 0 {
		info[LabelPE] = strconv.FormatFloat(q.TrailingPE, 'f', 2, 64)
	}
	if q.FiftyTwoWeekHigh > 0 {
		info[Label52WeekHigh] = formatMoney(decimal.NewFromFloat(q.FiftyTwoWeekHigh), currency)
	}
	if q.FiftyTwoWeekLow > 0 {
		info[Label52WeekLow] = formatMoney(decimal.NewFromFloat(q.FiftyTwoWeekLow), currency)
	}

	exchange := stock.Exchange
	if exchange == "" {
		exchange = q.Exchange
	}
	if exchange != "" {
		info[LabelExchange] = exchange
	}
	return info
}

// formatMoney renders amount in the currency's display format. Unknown
// currency codes fall back to "<amount> <code>".
func formatMoney(amount decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}
