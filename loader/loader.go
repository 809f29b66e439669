// Package loader reads the tracked-stock catalog and curated stock profiles.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"stock-positions/models"
)

// CalculatePopularityScore assigns a popularity score based on well-known stocks
// Score ranges from 0.2 (unknown) to 1.0 (highly popular)
func CalculatePopularityScore(symbol string) float64 {
	symbol = strings.ToUpper(symbol)

	if score, ok := tier1[symbol]; ok {
		return score
	}
	if score, ok := tier2[symbol]; ok {
		return score
	}
	if score, ok := tier3[symbol]; ok {
		return score
	}
	return 0.2
}

// Tier 1: most popular stocks (0.9-1.0)
var tier1 = map[string]float64{
	"RELIANCE":   1.0,
	"TCS":        0.98,
	"HDFCBANK":   0.96,
	"INFY":       0.95,
	"ICICIBANK":  0.94,
	"HINDUNILVR": 0.93,
	"ITC":        0.92,
	"SBIN":       0.91,
	"BHARTIARTL": 0.90,
	"KOTAKBANK":  0.90,
}

// Tier 2: well-known large caps (0.7-0.89)
var tier2 = map[string]float64{
	"BAJFINANCE": 0.85,
	"LT":         0.84,
	"ASIANPAINT": 0.83,
	"AXISBANK":   0.82,
	"MARUTI":     0.81,
	"SUNPHARMA":  0.80,
	"TITAN":      0.79,
	"WIPRO":      0.76,
	"TATAMOTORS": 0.75,
	"TATASTEEL":  0.73,
	"ONGC":       0.70,
}

// Tier 3: mid-caps and sector leaders (0.4-0.69)
var tier3 = map[string]float64{
	"DRREDDY":   0.64,
	"CIPLA":     0.63,
	"TECHM":     0.62,
	"HCLTECH":   0.61,
	"POWERGRID": 0.60,
	"NTPC":      0.59,
	"COALINDIA": 0.58,
	"JSWSTEEL":  0.54,
	"M&M":       0.49,
	"BRITANNIA": 0.46,
	"DABUR":     0.40,
}

// DefaultCatalog is the tracked list used when no catalog file is configured.
func DefaultCatalog() []models.Stock {
	stocks := []models.Stock{
		{Symbol: "RELIANCE", Name: "Reliance Industries Limited", Exchange: "NSE", Type: "Stock", Brand: "Jio", Sector: "Energy"},
		{Symbol: "TCS", Name: "Tata Consultancy Services Limited", Exchange: "NSE", Type: "Stock", Brand: "Tata", Sector: "Information Technology"},
		{Symbol: "HDFCBANK", Name: "HDFC Bank Limited", Exchange: "NSE", Type: "Stock", Sector: "Financial Services"},
		{Symbol: "INFY", Name: "Infosys Limited", Exchange: "NSE", Type: "Stock", Sector: "Information Technology"},
	}
	for i := range stocks {
		stocks[i].PopularityScore = CalculatePopularityScore(stocks[i].Symbol)
	}
	return stocks
}

// LoadStocks reads a catalog CSV file. See ReadStocks.
func LoadStocks(filePath string) ([]models.Stock, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stocks, err := ReadStocks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return stocks, nil
}

// ReadStocks parses Symbol,Name,Exchange,Type,Brand records. The header row
// is optional, Brand may be omitted, and the exchange defaults to NSE.
// Duplicate symbols on the same exchange keep the first record.
func ReadStocks(r io.Reader) ([]models.Stock, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	// Skip header row if the first cell is "Symbol"
	if len(records) > 0 && strings.EqualFold(records[0][0], "Symbol") {
		records = records[1:]
	}

	var stocks []models.Stock
	seen := make(map[string]bool)
	for i, record := range records {
		if len(record) < 2 {
			continue
		}
		symbol := strings.TrimSpace(record[0])
		if err := models.ValidateTicker(symbol); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		stock := models.Stock{
			Symbol:          symbol,
			Name:            strings.TrimSpace(record[1]),
			Exchange:        "NSE",
			Type:            "Stock",
			PopularityScore: CalculatePopularityScore(symbol),
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			stock.Exchange = strings.ToUpper(strings.TrimSpace(record[2]))
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			stock.Type = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			stock.Brand = strings.TrimSpace(record[4])
		}

		key := stock.Exchange + ":" + stock.Symbol
		if seen[key] {
			continue
		}
		seen[key] = true
		stocks = append(stocks, stock)
	}

	if len(stocks) == 0 {
		return nil, errors.New("catalog has no stocks")
	}
	return stocks, nil
}

// Profile is the curated, non-price part of a stock detail.
type Profile struct {
	About string            `json:"about"`
	Pros  []string          `json:"pros"`
	Cons  []string          `json:"cons"`
	News  []models.NewsItem `json:"news"`
}

// LoadProfiles reads a JSON object mapping ticker to Profile. Keys are
// upper-cased.
func LoadProfiles(filePath string) (map[string]Profile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw map[string]Profile
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	profiles := make(map[string]Profile, len(raw))
	for ticker, p := range raw {
		profiles[strings.ToUpper(ticker)] = p
	}
	return profiles, nil
}

// LoadBrandMappings reads a JSON object mapping symbol to a comma separated
// list of consumer brands.
func LoadBrandMappings(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var mappings map[string]string
	if err := json.NewDecoder(file).Decode(&mappings); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return mappings, nil
}

// ApplyBrands appends mapped brands to each stock's Brand so they become
// searchable.
func ApplyBrands(stocks []models.Stock, mappings map[string]string) {
	for i := range stocks {
		brands, ok := mappings[stocks[i].Symbol]
		if !ok || brands == "" {
			continue
		}
		if stocks[i].Brand != "" {
			stocks[i].Brand += ", " + brands
		} else {
			stocks[i].Brand = brands
		}
	}
}
