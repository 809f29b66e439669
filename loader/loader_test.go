package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stock-positions/models"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStocks(t *testing.T) {
	path := writeTemp(t, "stocks.csv", `Symbol,Name,Exchange,Type,Brand
RELIANCE,Reliance Industries Limited,NSE,Stock,Jio
TCS,Tata Consultancy Services Limited,NSE,Stock,Tata
500325,Reliance Industries Limited,bse,Stock
HDFCBANK,HDFC Bank Limited`)

	stocks, err := LoadStocks(path)
	if err != nil {
		t.Fatalf("LoadStocks failed: %v", err)
	}

	if len(stocks) != 4 {
		t.Fatalf("Expected 4 stocks, got %d", len(stocks))
	}
	if stocks[0].Symbol != "RELIANCE" {
		t.Errorf("Expected symbol RELIANCE, got %s", stocks[0].Symbol)
	}
	if stocks[0].Brand != "Jio" {
		t.Errorf("Expected brand Jio, got %s", stocks[0].Brand)
	}
	if stocks[0].PopularityScore != 1.0 {
		t.Errorf("Expected popularity 1.0, got %v", stocks[0].PopularityScore)
	}
	if stocks[2].Exchange != "BSE" || stocks[2].Brand != "" {
		t.Errorf("Unexpected BSE record: %+v", stocks[2])
	}
	if stocks[3].Exchange != "NSE" || stocks[3].Type != "Stock" {
		t.Errorf("Expected NSE/Stock defaults, got %+v", stocks[3])
	}
}

func TestReadStocksWithoutHeader(t *testing.T) {
	stocks, err := ReadStocks(strings.NewReader("INFY,Infosys Limited,NSE,Stock,\nINFY,Infosys duplicate,NSE,Stock,\n"))
	if err != nil {
		t.Fatalf("ReadStocks failed: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Name != "Infosys Limited" {
		t.Errorf("Expected one deduplicated INFY record, got %+v", stocks)
	}
}

func TestReadStocksRejectsBadTicker(t *testing.T) {
	_, err := ReadStocks(strings.NewReader("Symbol,Name\nA/B,Slash Corp\n"))
	if !errors.Is(err, models.ErrInvalidTicker) {
		t.Errorf("Expected ErrInvalidTicker, got %v", err)
	}

	_, err = ReadStocks(strings.NewReader("Symbol,Name\n"))
	if err == nil {
		t.Error("Expected error for empty catalog")
	}
}

func TestDefaultCatalog(t *testing.T) {
	stocks := DefaultCatalog()
	want := []string{"RELIANCE", "TCS", "HDFCBANK", "INFY"}
	if len(stocks) != len(want) {
		t.Fatalf("Expected %d stocks, got %d", len(want), len(stocks))
	}
	for i, symbol := range want {
		if stocks[i].Symbol != symbol || stocks[i].Exchange != "NSE" {
			t.Errorf("stocks[%d] = %s/%s, want %s/NSE", i, stocks[i].Symbol, stocks[i].Exchange, symbol)
		}
	}
}

func TestCalculatePopularityScore(t *testing.T) {
	cases := map[string]float64{
		"reliance": 1.0,
		"WIPRO":    0.76,
		"M&M":      0.49,
		"UNKNOWN":  0.2,
	}
	for symbol, want := range cases {
		if got := CalculatePopularityScore(symbol); got != want {
			t.Errorf("CalculatePopularityScore(%q) = %v, want %v", symbol, got, want)
		}
	}
}

func TestLoadProfiles(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{
		"tcs": {
			"about": "IT services and consulting",
			"pros": ["Debt free"],
			"cons": ["Slowing growth"],
			"news": [{"name": "Q2 results", "link": "https://example.com/q2"}]
		},
		"INFY": {"about": "Infosys"}
	}`)

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	if len(profiles) != 2 {
		t.Errorf("Expected 2 profiles, got %d", len(profiles))
	}
	tcs, ok := profiles["TCS"]
	if !ok {
		t.Fatal("Expected TCS profile under upper-cased key")
	}
	if tcs.About != "IT services and consulting" || len(tcs.Pros) != 1 || len(tcs.News) != 1 {
		t.Errorf("Incorrect profile for TCS: %+v", tcs)
	}
	if tcs.News[0].URL != "https://example.com/q2" {
		t.Errorf("Expected news link, got %q", tcs.News[0].URL)
	}
}

func TestLoadProfilesInvalidJSON(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{"TCS": [}`)
	if _, err := LoadProfiles(path); err == nil {
		t.Error("Expected decode error")
	}
}

func TestLoadBrandMappings(t *testing.T) {
	path := writeTemp(t, "brands.json", `{
		"RELIANCE": "Reliance Digital, JioMart",
		"ITC": "Aashirvaad"
	}`)

	mappings, err := LoadBrandMappings(path)
	if err != nil {
		t.Fatalf("LoadBrandMappings failed: %v", err)
	}
	if len(mappings) != 2 {
		t.Errorf("Expected 2 mappings, got %d", len(mappings))
	}

	stocks := DefaultCatalog()
	ApplyBrands(stocks, mappings)
	if stocks[0].Brand != "Jio, Reliance Digital, JioMart" {
		t.Errorf("Incorrect brand for RELIANCE: %q", stocks[0].Brand)
	}
	if stocks[3].Brand != "" {
		t.Errorf("Expected INFY brand untouched, got %q", stocks[3].Brand)
	}
}
