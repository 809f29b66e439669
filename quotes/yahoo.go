package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stock-positions/models"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Yahoo Finance chart response, only the fields we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				ExchangeName       string  `json:"fullExchangeName"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
				FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooChart reads the last price from the Yahoo Finance chart endpoint.
// Yahoo requires a session cookie and a crumb; both are fetched on every call.
type YahooChart struct {
	HTTPClient *http.Client
	HomeURL    string
	APIURL     string
}

// NewYahooChart returns a YahooChart using a cookie jar on top of hc's transport.
func NewYahooChart(hc *http.Client) *YahooChart {
	jar, _ := cookiejar.New(nil)
	c := &http.Client{Jar: jar, Timeout: 10 * time.Second}
	if hc != nil {
		c.Transport = hc.Transport
		if hc.Timeout > 0 {
			c.Timeout = hc.Timeout
		}
	}
	return &YahooChart{
		HTTPClient: c,
		HomeURL:    "https://finance.yahoo.com",
		APIURL:     "https://query1.finance.yahoo.com",
	}
}

func (*YahooChart) Name() string { return "yahoo" }

func (y *YahooChart) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	symbol := YahooSymbol(stock)

	crumb, err := y.crumb(ctx)
	if err != nil {
		return nil, err
	}

	escaped := url.PathEscape(symbol)
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("range", "1d")
	q.Set("interval", "5m")
	q.Set("crumb", crumb)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.APIURL, escaped, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := y.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo api returned status: %s", resp.Status)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w for %s: no result in yahoo response", ErrNoQuote, symbol)
	}

	result := chart.Chart.Result[0]
	meta := result.Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%w for %s: no market price", ErrNoQuote, symbol)
	}

	prev := meta.ChartPreviousClose
	if prev == 0 {
		prev = meta.PreviousClose
	}
	// Some responses miss the previous close; use the first close of the session.
	if prev == 0 && len(result.Indicators.Quote) > 0 {
		for _, c := range result.Indicators.Quote[0].Close {
			if c != 0 {
				prev = c
				break
			}
		}
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	out := &Quote{
		Symbol:           stock.Symbol,
		Name:             name,
		Currency:         meta.Currency,
		Exchange:         meta.ExchangeName,
		Price:            decimal.NewFromFloat(meta.RegularMarketPrice),
		PreviousClose:    decimal.NewFromFloat(prev),
		FiftyTwoWeekHigh: meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  meta.FiftyTwoWeekLow,
		Source:           "yahoo",
	}
	out.fillChange()
	return out, nil
}

func (y *YahooChart) crumb(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.HomeURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := y.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get cookie: %w", err)
	}
	resp.Body.Close()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, y.APIURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", y.HomeURL)
	req.Header.Set("Referer", y.HomeURL+"/")

	resp, err = y.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get crumb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("failed to read crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.Contains(crumb, "html") {
		log.Debug().Int("status", resp.StatusCode).Msg("yahoo crumb rejected")
		return "", fmt.Errorf("invalid crumb received")
	}
	return crumb, nil
}
