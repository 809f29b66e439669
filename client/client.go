// Package client fetches stock data from the stocks backend.
//
// Each call is a single GET against the origin chosen by an origin.Source.
// The client keeps no state between calls and never retries; callers that
// want caching put a query.Cache in front of it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"stock-positions/models"
	"stock-positions/origin"
)

// DefaultTimeout bounds a request when the caller supplies no http.Client.
const DefaultTimeout = 10 * time.Second

// Client is safe for concurrent use.
type Client struct {
	origin     origin.Source
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client sending requests to src.
func New(src origin.Source, opts ...Option) *Client {
	c := &Client{
		origin:     src,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithOrigin returns a copy of c talking to src. The http.Client is shared.
func (c *Client) WithOrigin(src origin.Source) *Client {
	cp := *c
	cp.origin = src
	return &cp
}

// Origin returns the origin the next request would go to.
func (c *Client) Origin() string {
	return c.origin.BaseOrigin()
}

// ListStocks returns the tracked stocks.
func (c *Client) ListStocks(ctx context.Context) ([]models.StockSummary, error) {
	var stocks []models.StockSummary
	if err := c.getJSON(ctx, c.Origin()+"/api/stocks", &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetStockDetail returns the detail record for ticker.
func (c *Client) GetStockDetail(ctx context.Context, ticker string) (*models.StockDetail, error) {
	if ticker == "" {
		return nil, ErrEmptyTicker
	}
	var detail models.StockDetail
	if err := c.getJSON(ctx, c.Origin()+StockPath(ticker), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchStocks asks the backend for catalog entries matching query.
func (c *Client) SearchStocks(ctx context.Context, query string) ([]models.Stock, error) {
	var stocks []models.Stock
	addr := c.Origin() + "/api/search?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, addr, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// StockPath is the path of a ticker's detail resource.
func StockPath(ticker string) string {
	return "/api/stocks/" + EscapeTicker(ticker)
}

// EscapeTicker escapes ticker into a single path segment that decodes back to
// the literal ticker. Dot segments are percent-encoded so that path cleaning
// cannot drop them.
func EscapeTicker(ticker string) string {
	switch ticker {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(ticker)
}

// getJSON performs a GET on addr and decodes the JSON body into out.
// Transport errors are returned untouched.
func (c *Client) getJSON(ctx context.Context, addr string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot build request for %s: %w", addr, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", req.Method).
		Str("url", addr).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("stocks backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        addr,
			Body:       string(excerpt),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: addr, Err: err}
	}
	return nil
}
