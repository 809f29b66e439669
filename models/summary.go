package models

import "github.com/shopspring/decimal"

// MarketCapLabel is the basic_info entry the list view always shows.
const MarketCapLabel = "Market Cap"

// Description names a stock. About is only populated on detail payloads.
type Description struct {
	Name  string `json:"name"`
	About string `json:"about,omitempty"`
}

// PriceChange is the move since the previous close.
type PriceChange struct {
	AmountChange  Number `json:"amount_change"`
	PercentChange Number `json:"percent_change"`
}

// StockSummary is one row of the stock list.
type StockSummary struct {
	Ticker      string      `json:"ticker"`
	Description Description `json:"description"`
	// CurrentPrice travels as a JSON string.
	CurrentPrice decimal.Decimal   `json:"current_price"`
	PriceChange  PriceChange       `json:"price_change"`
	BasicInfo    map[string]string `json:"basic_info"`
}

// MarketCap returns the "Market Cap" entry, or "-" when the backend left it out.
func (s StockSummary) MarketCap() string {
	if v, ok := s.BasicInfo[MarketCapLabel]; ok && v != "" {
		return v
	}
	return "-"
}
