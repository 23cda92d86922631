package homebook

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency describes a money unit known to the exchange: its display
// properties and the number of decimal places used for amounts.
type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Fraction int    `json:"fraction"`           // number of decimal places
	Thousand string `json:"thousand,omitempty"` // group separator
	Decimal  string `json:"decimal,omitempty"`  // decimal separator
}

// ValidateCurrency checks that a currency code looks like an ISO 4217 code:
// exactly three uppercase letters.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("invalid currency code %q: must be 3 characters long", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("invalid currency code %q: must be uppercase letters", code)
		}
	}
	return nil
}

// DefaultCurrency returns a Currency seeded from the go-money metadata for
// well-known ISO codes. The second return is false when the code is unknown.
func DefaultCurrency(code string) (Currency, bool) {
	mc := money.GetCurrency(code)
	if mc == nil {
		return Currency{}, false
	}
	return Currency{
		Code:     mc.Code,
		Symbol:   mc.Grapheme,
		Fraction: mc.Fraction,
		Thousand: mc.Thousand,
		Decimal:  mc.Decimal,
	}, true
}

// formatter builds the go-money formatter for this currency.
func (c Currency) formatter() *money.Formatter {
	template := "$1"
	if mc := money.GetCurrency(c.Code); mc != nil {
		template = mc.Template
	}
	return &money.Formatter{
		Fraction: c.Fraction,
		Decimal:  c.Decimal,
		Thousand: c.Thousand,
		Grapheme: c.Symbol,
		Template: template,
	}
}

// FormatAmount renders an amount using this currency's fraction and separators.
func (c Currency) FormatAmount(amount decimal.Decimal) string {
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return c.formatter().Format(minor)
}
