package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-positions/models"
)

func summary(ticker, name, price, amount, percent, cap string) models.StockSummary {
	s := models.StockSummary{
		Ticker:       ticker,
		Description:  models.Description{Name: name},
		CurrentPrice: decimal.RequireFromString(price),
		PriceChange: models.PriceChange{
			AmountChange:  models.NewNumber(decimal.RequireFromString(amount)),
			PercentChange: models.NewNumber(decimal.RequireFromString(percent)),
		},
	}
	if cap != "" {
		s.BasicInfo = map[string]string{models.MarketCapLabel: cap}
	}
	return s
}

func TestStockList(t *testing.T) {
	md := StockList([]models.StockSummary{
		summary("RELIANCE", "Reliance Industries", "2950.45", "-12.5", "-0.421", "₹19,96,000 Cr"),
		summary("M&M", "Mahindra | Mahindra", "1650", "3", "0.18", ""),
	}, ListOptions{})

	assert.True(t, strings.HasPrefix(md, "# Stocks\n\n| Name | Ticker | Price | Change | Market Cap |\n"))
	assert.Contains(t, md, "| Reliance Industries | RELIANCE | 2950.45 | -12.50 (-0.42%) | ₹19,96,000 Cr |\n")
	assert.Contains(t, md, `| Mahindra \| Mahindra | M&M | 1650 | 3.00 (0.18%) | - |`)
	assert.Contains(t, md, "_A list of your stocks._")
}

func TestStockListLinks(t *testing.T) {
	md := StockList([]models.StockSummary{summary("BRK.A", "Berkshire", "1", "0", "0", "")}, ListOptions{LinkBase: "/stocks/"})
	assert.Contains(t, md, "[BRK.A](/stocks/BRK.A)")

	md = StockList([]models.StockSummary{
		summary("..", "Dots", "1", "0", "0", ""),
		summary("50%", "Percent", "1", "0", "0", ""),
		summary("X(1)", "Parens", "1", "0", "0", ""),
	}, ListOptions{LinkBase: "/stocks/"})
	assert.Contains(t, md, "[..](/stocks/%2E%2E)")
	assert.Contains(t, md, "[50%](/stocks/50%25)")
	assert.Contains(t, md, "[X(1)](/stocks/X%281%29)")
}

func TestStockListEmpty(t *testing.T) {
	assert.Equal(t, "# Stocks\n\nNo stocks to show.\n", StockList(nil, ListOptions{}))
}

func TestStockDetail(t *testing.T) {
	d := &models.StockDetail{
		Description: models.Description{Name: "Infosys", About: "IT services\nand consulting"},
		BasicInfo:   map[string]string{"P/E": "24.1", "Market Cap": "₹6,20,000 Cr"},
		ProsAndCons: models.ProsAndCons{Pros: []string{"Debt free"}, Cons: []string{"Slowing growth", "Visa costs"}},
		TopNews:     []models.NewsItem{{Headline: "Q2 [prelim] results", URL: "https://example.com/q2 (1)"}},
	}

	md := StockDetail("INFY", d)

	want := `# Infosys

IT services and consulting

## Basic Info

- **Market Cap:** ₹6,20,000 Cr
- **P/E:** 24.1

## Pros & Cons

### Pros

- Debt free

### Cons

- Slowing growth
- Visa costs

## Top News

- [Q2 \[prelim\] results](https://example.com/q2%20%281%29)
`
	assert.Equal(t, want, md)
}

func TestStockDetailEmpty(t *testing.T) {
	md := StockDetail("TCS", &models.StockDetail{})
	assert.True(t, strings.HasPrefix(md, "# TCS\n\n## Basic Info\n\nNo data.\n"))
	assert.Equal(t, 4, strings.Count(md, "No data."))

	assert.Equal(t, md, StockDetail("TCS", nil))
}

func TestSearchResults(t *testing.T) {
	md := SearchResults("tata", []models.Stock{{Symbol: "TCS", Name: "Tata Consultancy Services", Exchange: "NSE", Sector: "IT"}})
	assert.Contains(t, md, "# Search: tata")
	assert.Contains(t, md, "| TCS | Tata Consultancy Services | NSE | IT |")

	assert.Contains(t, SearchResults("zzz", nil), "No stocks match.")
}

func TestError(t *testing.T) {
	assert.Equal(t, "Error: network response was not ok\n", Error(errors.New("network response was not ok")))
}

func TestHTML(t *testing.T) {
	md := StockList([]models.StockSummary{summary("TCS", "<script>alert(1)</script>", "4100", "1", "0.1", "x")}, ListOptions{LinkBase: "/stocks/"})
	html, err := HTML(md)
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<a href="/stocks/TCS">TCS</a>`)
	assert.NotContains(t, html, "<script>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(StockDetail("TCS", &models.StockDetail{Description: models.Description{Name: "Tata Consultancy"}}), "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Tata Consultancy")
	assert.Contains(t, out, "Basic Info")
}
