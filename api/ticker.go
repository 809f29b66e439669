package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"stock-positions/models"
)

// TickerParam returns the {ticker} path segment as the literal ticker.
// chi routes on r.URL.RawPath when the request carried one, so the segment
// is still escaped and is decoded here exactly once; otherwise chi already
// matched on the decoded path.
func TickerParam(r *http.Request) (string, error) {
	ticker := chi.URLParam(r, "ticker")
	if r.URL.RawPath != "" {
		var err error
		if ticker, err = url.PathUnescape(ticker); err != nil {
			return "", err
		}
	}
	if err := models.ValidateTicker(ticker); err != nil {
		return "", err
	}
	return ticker, nil
}
