package models

import "github.com/shopspring/decimal"

// Number is a decimal that is written as a bare JSON number rather than the
// quoted string decimal.Decimal produces. It reads both forms.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number { return Number{d} }

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	return n.Decimal.UnmarshalJSON(b)
}
