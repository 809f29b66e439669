package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stock-positions/models"
)

// Angel One credential keys.
const (
	AngelOneClientCode = "ANGELONE_CLIENT_CODE"
	AngelOnePassword   = "ANGELONE_PASSWORD"
	AngelOneAPIKey     = "ANGELONE_API_KEY"
)

// JWT tokens are valid for 10 minutes.
const angelOneTokenTTL = 9 * time.Minute

type angelOneLoginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
}

type angelOneLoginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		JWTToken string `json:"jwtToken"`
	} `json:"data"`
}

type angelOneCandleRequest struct {
	Exchange    string `json:"exchange"`
	SymbolToken string `json:"symboltoken"`
	Interval    string `json:"interval"`
	FromDate    string `json:"fromdate"`
	ToDate      string `json:"todate"`
}

type angelOneCandleResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    [][]interface{} `json:"data"` // [timestamp, open, high, low, close, volume]
}

// AngelOne quotes from the Angel One SmartAPI daily candles: the last close
// is the price, the one before it the previous close. Only symbols with a
// known symbol token are supported.
type AngelOne struct {
	Credentials Credentials
	HTTPClient  *http.Client
	BaseURL     string
	Now         func() time.Time

	mu        sync.Mutex
	jwtToken  string
	tokenTime time.Time
}

// NewAngelOne returns an AngelOne provider using creds.
func NewAngelOne(creds Credentials, hc *http.Client) *AngelOne {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &AngelOne{
		Credentials: creds,
		HTTPClient:  hc,
		BaseURL:     "https://apiconnect.angelbroking.com",
		Now:         time.Now,
	}
}

func (*AngelOne) Name() string { return "angelone" }

func (a *AngelOne) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	exchange := strings.ToUpper(stock.Exchange)
	if exchange != "BSE" {
		exchange = "NSE"
	}
	token := angelOneToken(stock.Symbol, exchange)
	if token == "" {
		return nil, fmt.Errorf("%w for %s: no Angel One symbol token on %s", ErrNoQuote, stock.Symbol, exchange)
	}

	jwt, err := a.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	to := a.Now()
	from := to.AddDate(0, 0, -10)
	var candles angelOneCandleResponse
	err = a.post(ctx, "/rest/secure/angelbroking/historical/v1/getCandleData", jwt, angelOneCandleRequest{
		Exchange:    exchange,
		SymbolToken: token,
		Interval:    "ONE_DAY",
		FromDate:    from.Format("2006-01-02 15:04"),
		ToDate:      to.Format("2006-01-02 15:04"),
	}, &candles)
	if err != nil {
		return nil, err
	}
	if !candles.Status {
		return nil, fmt.Errorf("angel one api error: %s", candles.Message)
	}

	closes := make([]float64, 0, len(candles.Data))
	for _, candle := range candles.Data {
		if len(candle) < 5 {
			continue
		}
		if c, ok := candle[4].(float64); ok && c != 0 {
			closes = append(closes, c)
		}
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("%w for %s: no candles from Angel One", ErrNoQuote, stock.Symbol)
	}

	q := &Quote{
		Symbol:   stock.Symbol,
		Name:     stock.Name,
		Currency: "INR",
		Exchange: exchange,
		Price:    decimal.NewFromFloat(closes[len(closes)-1]),
		Source:   "angelone",
	}
	if len(closes) > 1 {
		q.PreviousClose = decimal.NewFromFloat(closes[len(closes)-2])
	}
	q.fillChange()
	return q, nil
}

// authenticate logs in unless the cached token is still valid.
func (a *AngelOne) authenticate(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.jwtToken != "" && a.Now().Sub(a.tokenTime) < angelOneTokenTTL {
		return a.jwtToken, nil
	}

	clientCode, err := a.Credentials.GetCredential(AngelOneClientCode)
	if err != nil {
		return "", err
	}
	password, err := a.Credentials.GetCredential(AngelOnePassword)
	if err != nil {
		return "", err
	}

	var login angelOneLoginResponse
	err = a.post(ctx, "/rest/auth/angelbroking/user/v1/loginByPassword", "", angelOneLoginRequest{
		ClientCode: clientCode,
		Password:   password,
	}, &login)
	if err != nil {
		return "", err
	}
	if !login.Status {
		return "", fmt.Errorf("login rejected: %s", login.Message)
	}

	a.jwtToken = login.Data.JWTToken
	a.tokenTime = a.Now()
	return a.jwtToken, nil
}

func (a *AngelOne) post(ctx context.Context, path, jwt string, in, out any) error {
	apiKey, err := a.Credentials.GetCredential(AngelOneAPIKey)
	if err != nil {
		return err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	req.Header.Set("X-ClientLocalIP", "127.0.0.1")
	req.Header.Set("X-ClientPublicIP", "127.0.0.1")
	req.Header.Set("X-MACAddress", "00:00:00:00:00:00")
	req.Header.Set("X-PrivateKey", apiKey)
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("angel one returned status: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// Symbol tokens for the common large caps. Angel One publishes the full
// list in its instrument master file.
var angelOneTokens = map[string]map[string]string{
	"NSE": {
		"RELIANCE":   "2885",
		"TCS":        "11536",
		"HDFCBANK":   "1333",
		"INFY":       "1594",
		"ICICIBANK":  "4963",
		"SBIN":       "3045",
		"BHARTIARTL": "10604",
		"ITC":        "1660",
		"KOTAKBANK":  "1922",
		"LT":         "11483",
	},
	"BSE": {
		"RELIANCE":  "500325",
		"TCS":       "532540",
		"HDFCBANK":  "500180",
		"INFY":      "500209",
		"ICICIBANK": "532174",
	},
}

func angelOneToken(symbol, exchange string) string {
	return angelOneTokens[exchange][strings.ToUpper(symbol)]
}
