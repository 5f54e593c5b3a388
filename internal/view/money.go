package view

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats amounts as the currency symbol followed by exactly two
// decimals and no grouping, e.g. ₹1234.50 or ₹-200.00. The symbol always
// comes first.
type Money struct {
	code     string
	grapheme string
	f        *money.Formatter
}

// NewMoney returns a formatter using the symbol of the ISO 4217 currency code.
func NewMoney(code string) (*Money, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return &Money{code: code, grapheme: cur.Grapheme, f: money.NewFormatter(2, ".", "", cur.Grapheme, "$1")}, nil
}

// Code returns the currency code.
func (m *Money) Code() string { return m.code }

// Format renders v rounded to cents.
func (m *Money) Format(v float64) string {
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	if cents < 0 {
		return m.grapheme + "-" + strings.TrimPrefix(m.f.Format(-cents), m.grapheme)
	}
	return m.f.Format(cents)
}
