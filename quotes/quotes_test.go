package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-positions/models"
)

type stubProvider struct {
	name  string
	quote *Quote
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Quote(ctx context.Context, stock models.Stock) (*Quote, error) {
	s.calls++
	return s.quote, s.err
}

func TestYahooSymbol(t *testing.T) {
	assert.Equal(t, "TCS.NS", YahooSymbol(models.Stock{Symbol: "TCS", Exchange: "NSE"}))
	assert.Equal(t, "TCS.NS", YahooSymbol(models.Stock{Symbol: "TCS"}))
	assert.Equal(t, "TCS.BO", YahooSymbol(models.Stock{Symbol: "TCS", Exchange: "bse"}))
	assert.Equal(t, "AAPL", YahooSymbol(models.Stock{Symbol: "AAPL", Exchange: "NASDAQ"}))
}

func TestMockIsDeterministic(t *testing.T) {
	ctx := context.Background()
	tcs := models.Stock{Symbol: "TCS", Name: "Tata Consultancy Services", Exchange: "NSE"}

	q1, err := Mock{}.Quote(ctx, tcs)
	require.NoError(t, err)
	q2, err := Mock{}.Quote(ctx, tcs)
	require.NoError(t, err)

	assert.True(t, q1.Price.Equal(q2.Price))
	assert.Equal(t, "1031.5", q1.Price.String())
	assert.Equal(t, "6", q1.Change.String())
	assert.Equal(t, "Tata Consultancy Services", q1.Name)
	assert.Equal(t, "mock", q1.Source)

	infy, err := Mock{}.Quote(ctx, models.Stock{Symbol: "INFY"})
	require.NoError(t, err)
	assert.True(t, infy.Change.IsNegative())
}

func TestMockHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Mock{}.Quote(ctx, models.Stock{Symbol: "TCS"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChainFallsBack(t *testing.T) {
	failing := &stubProvider{name: "broken", err: errors.New("boom")}
	working := &stubProvider{name: "ok", quote: &Quote{Symbol: "TCS", Price: decimal.NewFromInt(10)}}
	unused := &stubProvider{name: "unused", quote: &Quote{}}

	q, err := Chain{failing, working, unused}.Quote(context.Background(), models.Stock{Symbol: "TCS"})
	require.NoError(t, err)
	assert.Equal(t, "10", q.Price.String())
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
	assert.Equal(t, 0, unused.calls)
}

func TestChainAllFail(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("first")}
	b := &stubProvider{name: "b", err: ErrNoQuote}

	_, err := Chain{a, b}.Quote(context.Background(), models.Stock{Symbol: "TCS"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoQuote)
	assert.Contains(t, err.Error(), "a: first")

	_, err = Chain{}.Quote(context.Background(), models.Stock{Symbol: "TCS"})
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestFromNames(t *testing.T) {
	chain, err := FromNames([]string{"financego", " Yahoo ", "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "financego,yahoo,mock", chain.Name())

	chain, err = FromNames([]string{"angelone"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "angelone", chain.Name())

	_, err = FromNames([]string{"bloomberg"}, nil)
	assert.Error(t, err)
}

func TestFinanceGo(t *testing.T) {
	var asked string
	p := FinanceGo{Get: func(symbol string) (*finance.Equity, error) {
		asked = symbol
		return &finance.Equity{
			Quote: finance.Quote{
				ShortName:                  "RELIANCE IND",
				RegularMarketPrice:         2950.5,
				RegularMarketPreviousClose: 2900,
				CurrencyID:                 "INR",
				FiftyTwoWeekHigh:           3100,
				FiftyTwoWeekLow:            2200,
			},
			LongName:   "Reliance Industries Limited",
			TrailingPE: 28.4,
			MarketCap:  19960000000000,
		}, nil
	}}

	q, err := p.Quote(context.Background(), models.Stock{Symbol: "RELIANCE", Exchange: "NSE"})
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE.NS", asked)
	assert.Equal(t, "Reliance Industries Limited", q.Name)
	assert.Equal(t, "50.5", q.Change.String())
	assert.Equal(t, int64(19960000000000), q.MarketCap)
	assert.False(t, q.ChangePercent.IsZero())
}

func TestFinanceGoEmptyQuote(t *testing.T) {
	p := FinanceGo{Get: func(string) (*finance.Equity, error) { return &finance.Equity{}, nil }}
	_, err := p.Quote(context.Background(), models.Stock{Symbol: "NOPE"})
	assert.ErrorIs(t, err, ErrNoQuote)

	p = FinanceGo{Get: func(string) (*finance.Equity, error) { return nil, errors.New("remote down") }}
	_, err = p.Quote(context.Background(), models.Stock{Symbol: "NOPE"})
	assert.ErrorContains(t, err, "remote down")
}

func newYahooServer(t *testing.T, chart string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("A3"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("crumb123"))
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("crumb") != "crumb123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chart))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestYahooChart(t *testing.T) {
	srv := newYahooServer(t, `{"chart":{"result":[{"meta":{"currency":"INR","longName":"Mahindra & Mahindra","regularMarketPrice":210,"chartPreviousClose":200}}]}}`)
	y := NewYahooChart(srv.Client())
	y.HomeURL = srv.URL
	y.APIURL = srv.URL

	q, err := y.Quote(context.Background(), models.Stock{Symbol: "M&M", Exchange: "NSE"})
	require.NoError(t, err)
	assert.Equal(t, "Mahindra & Mahindra", q.Name)
	assert.Equal(t, "10", q.Change.String())
	assert.Equal(t, "5", q.ChangePercent.String())
	assert.Equal(t, "yahoo", q.Source)
}

func TestYahooChartEmptyResult(t *testing.T) {
	srv := newYahooServer(t, `{"chart":{"result":[]}}`)
	y := NewYahooChart(srv.Client())
	y.HomeURL = srv.URL
	y.APIURL = srv.URL

	_, err := y.Quote(context.Background(), models.Stock{Symbol: "GONE"})
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestYahooChartRejectsHTMLCrumb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>consent</html>"))
	}))
	defer srv.Close()
	y := NewYahooChart(srv.Client())
	y.HomeURL = srv.URL
	y.APIURL = srv.URL

	_, err := y.Quote(context.Background(), models.Stock{Symbol: "TCS"})
	assert.ErrorContains(t, err, "invalid crumb")
}

func TestMockFillsBasicInfo(t *testing.T) {
	q, err := Mock{}.Quote(context.Background(), models.Stock{Symbol: "TCS"})
	require.NoError(t, err)
	assert.Equal(t, int64(1031500000000), q.MarketCap)
	assert.Equal(t, 23.0, q.TrailingPE)
	assert.InDelta(t, 1237.8, q.FiftyTwoWeekHigh, 1e-9)
	assert.InDelta(t, 825.2, q.FiftyTwoWeekLow, 1e-9)
}
