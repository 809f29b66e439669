package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidTicker reports a ticker that cannot key a stock.
var ErrInvalidTicker = errors.New("invalid ticker")

// ValidateTicker checks that t can be used as a stock key and as a single
// URL path segment: non-empty, no whitespace or control characters, no '/'.
func ValidateTicker(t string) error {
	if t == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTicker)
	}
	if strings.ContainsRune(t, '/') {
		return fmt.Errorf("%w: %q contains '/'", ErrInvalidTicker, t)
	}
	for _, r := range t {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains whitespace", ErrInvalidTicker, t)
		}
	}
	return nil
}
