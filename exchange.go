package homebook

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// RateSource tags where an exchange rate row came from.
type RateSource string

const (
	RateSourceDefault RateSource = "default"
	RateSourceAPI     RateSource = "api"
	RateSourceManual  RateSource = "manual"
)

// ExchangeRate is a directional rate row: one unit of From is worth Rate units
// of To. A stored A→B row does not imply a B→A row exists.
type ExchangeRate struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Rate   decimal.Decimal `json:"rate"`
	Day    Date            `json:"date,omitzero"`
	Source RateSource      `json:"source,omitempty"`
}

// ErrRateNotFound reports that no direct, inverse, or cross-rate path exists
// between two currencies.
var ErrRateNotFound = errors.New("exchange rate not found")

// ConvertOptions carries the optional conversion fee: a percentage of the
// converted amount plus a fixed amount in the target currency.
type ConvertOptions struct {
	FeePercent decimal.Decimal
	FeeFixed   decimal.Decimal
}

// ConversionResult is the outcome of a single conversion.
type ConversionResult struct {
	Converted   Money           `json:"converted"`
	AppliedRate decimal.Decimal `json:"appliedRate"`
	Fee         Money           `json:"fee"`
}

// Exchange holds the known currencies and the pairwise exchange rates, and
// answers rate, conversion and formatting queries. Rates that cannot be
// resolved degrade to 1 with a logged warning rather than failing the caller.
type Exchange struct {
	base       string
	currencies map[string]Currency
	rates      map[string]ExchangeRate // keyed by the "FROMTO" pair
}

// NewExchange returns an exchange with the given base currency used for
// cross-rate resolution. The base currency is pre-registered when it is a
// well-known ISO code.
func NewExchange(base string) *Exchange {
	x := &Exchange{
		base:       base,
		currencies: make(map[string]Currency),
		rates:      make(map[string]ExchangeRate),
	}
	if c, ok := DefaultCurrency(base); ok {
		x.currencies[base] = c
	}
	return x
}

// Base returns the configured base currency.
func (x *Exchange) Base() string { return x.base }

// AddCurrency registers a currency. It returns false when the code is invalid
// or already registered.
func (x *Exchange) AddCurrency(c Currency) bool {
	if err := ValidateCurrency(c.Code); err != nil {
		log.Printf("rejecting currency: %v", err)
		return false
	}
	if _, exists := x.currencies[c.Code]; exists {
		return false
	}
	x.currencies[c.Code] = c
	return true
}

// RemoveCurrency unregisters a currency. It returns false when the code is
// unknown or still referenced by a stored exchange rate.
func (x *Exchange) RemoveCurrency(code string) bool {
	if _, exists := x.currencies[code]; !exists {
		return false
	}
	for _, r := range x.rates {
		if r.From == code || r.To == code {
			return false
		}
	}
	delete(x.currencies, code)
	return true
}

// Currency returns the registered currency for a code.
func (x *Exchange) Currency(code string) (Currency, bool) {
	c, ok := x.currencies[code]
	return c, ok
}

// AllCurrencies iterates over registered currencies in code order.
func (x *Exchange) AllCurrencies() iter.Seq[Currency] {
	return func(yield func(Currency) bool) {
		codes := slices.Collect(maps.Keys(x.currencies))
		slices.Sort(codes)
		for _, code := range codes {
			if !yield(x.currencies[code]) {
				return
			}
		}
	}
}

// UpsertRate stores a rate for the ordered pair (from, to), overwriting any
// previous row for that pair: last write wins.
func (x *Exchange) UpsertRate(from, to string, rate decimal.Decimal, day Date, source RateSource) error {
	if from == to {
		return fmt.Errorf("cannot store a rate from %s to itself", from)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("invalid rate %s for %s to %s: must be positive", rate, from, to)
	}
	key := from + to
	if old, exists := x.rates[key]; exists && !old.Rate.Equal(rate) {
		log.Printf("%v: update %s%s rate from %s to %s", day, from, to, old.Rate, rate)
	}
	x.rates[key] = ExchangeRate{From: from, To: to, Rate: rate, Day: day, Source: source}
	return nil
}

// AllRates iterates over stored rate rows in pair order.
func (x *Exchange) AllRates() iter.Seq[ExchangeRate] {
	return func(yield func(ExchangeRate) bool) {
		keys := slices.Collect(maps.Keys(x.rates))
		slices.Sort(keys)
		for _, key := range keys {
			if !yield(x.rates[key]) {
				return
			}
		}
	}
}

// lookup searches the stored rows for a rate: the direct pair first, then the
// reciprocal of the inverse pair.
func (x *Exchange) lookup(from, to string) (decimal.Decimal, bool) {
	if r, ok := x.rates[from+to]; ok {
		return r.Rate, true
	}
	if r, ok := x.rates[to+from]; ok {
		return decimal.NewFromInt(1).Div(r.Rate), true
	}
	return decimal.Decimal{}, false
}

// LookupRate resolves the rate from one currency to another: 1 for the same
// currency, else the direct row, else the reciprocal of the inverse row, else
// a cross rate through the base currency. Each cross-rate leg is itself a
// direct-or-inverse search, never another cross rate.
func (x *Exchange) LookupRate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := x.lookup(from, to); ok {
		return rate, nil
	}
	fromBase, ok := x.legToBase(from)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no path from %s to %s via %s", ErrRateNotFound, from, to, x.base)
	}
	toBase, ok := x.legToBase(to)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no path from %s to %s via %s", ErrRateNotFound, from, to, x.base)
	}
	return fromBase.Div(toBase), nil
}

// legToBase resolves one leg of a cross rate against the base currency.
func (x *Exchange) legToBase(code string) (decimal.Decimal, bool) {
	if code == x.base {
		return decimal.NewFromInt(1), true
	}
	return x.lookup(code, x.base)
}

// Rate is the degrade-gracefully form of LookupRate: when no path resolves it
// logs a warning and returns 1, making the conversion a no-op.
func (x *Exchange) Rate(from, to string) decimal.Decimal {
	rate, err := x.LookupRate(from, to)
	if err != nil {
		log.Printf("warning: %v, falling back to rate 1", err)
		return decimal.NewFromInt(1)
	}
	return rate
}

// Convert converts an amount into the target currency and applies the
// optional fee. The fee is always subtracted from the converted amount.
// A same-currency conversion is a structural no-op: the amount is returned
// unchanged and no fee applies, whatever the options say.
func (x *Exchange) Convert(amount Money, to string, opts ConvertOptions) ConversionResult {
	one := decimal.NewFromInt(1)
	if amount.Currency() == to {
		return ConversionResult{Converted: amount, AppliedRate: one, Fee: M(0, to)}
	}
	rate := x.Rate(amount.Currency(), to)
	converted := M(amount.Amount().Mul(rate), to)
	fee := converted.Mul(opts.FeePercent).Div(decimal.NewFromInt(100)).Add(M(opts.FeeFixed, to))
	return ConversionResult{
		Converted:   converted.Sub(fee),
		AppliedRate: rate,
		Fee:         fee,
	}
}

// Format renders an amount using the currency's decimal places and
// separators. An unregistered code logs a warning and falls back to the
// go-money defaults, then to the base currency's formatter, then to the plain
// decimal representation. It never fails.
func (x *Exchange) Format(amount decimal.Decimal, code string) string {
	if c, ok := x.currencies[code]; ok {
		return c.FormatAmount(amount)
	}
	log.Printf("warning: unknown currency %q, using fallback formatting", code)
	if c, ok := DefaultCurrency(code); ok {
		return c.FormatAmount(amount)
	}
	if c, ok := x.currencies[x.base]; ok {
		return c.FormatAmount(amount)
	}
	return amount.String()
}
