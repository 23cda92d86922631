package homebook

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// newTestExchange builds the rate table used across the conversion tests:
// USD base with direct rows to RUB and IDR only.
func newTestExchange(t *testing.T) *Exchange {
	t.Helper()
	x := NewExchange("USD")
	if err := x.UpsertRate("USD", "RUB", decimal.NewFromFloat(75.5), MustParse("2025-08-29"), RateSourceManual); err != nil {
		t.Fatalf("UpsertRate(USD, RUB) failed: %v", err)
	}
	if err := x.UpsertRate("USD", "IDR", decimal.NewFromInt(16500), MustParse("2025-08-29"), RateSourceManual); err != nil {
		t.Fatalf("UpsertRate(USD, IDR) failed: %v", err)
	}
	return x
}

func TestExchange_Rate(t *testing.T) {
	x := newTestExchange(t)

	testCases := []struct {
		name string
		from string
		to   string
		want float64
	}{
		{"Same currency", "RUB", "RUB", 1},
		{"Direct rate", "USD", "RUB", 75.5},
		{"Inverse rate", "RUB", "USD", 1 / 75.5},
		{"Cross rate via base", "RUB", "IDR", 16500 / 75.5},
		{"Cross rate other direction", "IDR", "RUB", 75.5 / 16500},
		{"Cross rate with base leg", "RUB", "USD", 1 / 75.5},
		{"No path falls back to 1", "RUB", "CHF", 1},
		{"Unknown currencies fall back to 1", "AAA", "BBB", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := x.Rate(tc.from, tc.to).InexactFloat64()
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Rate(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestExchange_LookupRate_NotFound(t *testing.T) {
	x := newTestExchange(t)

	if _, err := x.LookupRate("RUB", "CHF"); !errors.Is(err, ErrRateNotFound) {
		t.Errorf("LookupRate(RUB, CHF) error = %v, want ErrRateNotFound", err)
	}
	if _, err := x.LookupRate("RUB", "IDR"); err != nil {
		t.Errorf("LookupRate(RUB, IDR) unexpected error: %v", err)
	}
}

func TestExchange_RateIsIdempotent(t *testing.T) {
	x := newTestExchange(t)

	first := x.Rate("RUB", "IDR")
	second := x.Rate("RUB", "IDR")
	if !first.Equal(second) {
		t.Errorf("Rate(RUB, IDR) differs between calls: %s then %s", first, second)
	}
}

func TestExchange_Convert(t *testing.T) {
	x := newTestExchange(t)

	testCases := []struct {
		name          string
		amount        Money
		to            string
		opts          ConvertOptions
		wantConverted float64
		wantRate      float64
		wantFee       float64
	}{
		{
			name:          "Plain conversion",
			amount:        M(10, "USD"),
			to:            "RUB",
			wantConverted: 755,
			wantRate:      75.5,
		},
		{
			name:          "Same currency is a no-op even with fees",
			amount:        M(100, "USD"),
			to:            "USD",
			opts:          ConvertOptions{FeePercent: decimal.NewFromInt(5), FeeFixed: decimal.NewFromInt(3)},
			wantConverted: 100,
			wantRate:      1,
			wantFee:       0,
		},
		{
			name:          "Percentage and fixed fee subtracted",
			amount:        M(10, "USD"),
			to:            "RUB",
			opts:          ConvertOptions{FeePercent: decimal.NewFromInt(5), FeeFixed: decimal.NewFromInt(10)},
			wantConverted: 755 - (755*0.05 + 10),
			wantRate:      75.5,
			wantFee:       755*0.05 + 10,
		},
		{
			name:          "No path degrades to rate 1",
			amount:        M(42, "RUB"),
			to:            "CHF",
			wantConverted: 42,
			wantRate:      1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := x.Convert(tc.amount, tc.to, tc.opts)
			if v := got.Converted.Amount().InexactFloat64(); math.Abs(v-tc.wantConverted) > 1e-9 {
				t.Errorf("Converted = %v, want %v", v, tc.wantConverted)
			}
			if got.Converted.Currency() != tc.to {
				t.Errorf("Converted currency = %q, want %q", got.Converted.Currency(), tc.to)
			}
			if v := got.AppliedRate.InexactFloat64(); math.Abs(v-tc.wantRate) > 1e-9 {
				t.Errorf("AppliedRate = %v, want %v", v, tc.wantRate)
			}
			if v := got.Fee.Amount().InexactFloat64(); math.Abs(v-tc.wantFee) > 1e-9 {
				t.Errorf("Fee = %v, want %v", v, tc.wantFee)
			}
		})
	}
}

func TestExchange_Convert_FeeMonotonicity(t *testing.T) {
	x := newTestExchange(t)
	amount := M(10, "USD")

	prev := x.Convert(amount, "RUB", ConvertOptions{}).Converted
	for pct := 1; pct <= 5; pct++ {
		got := x.Convert(amount, "RUB", ConvertOptions{FeePercent: decimal.NewFromInt(int64(pct))}).Converted
		if !got.LessThan(prev) {
			t.Fatalf("fee %d%%: converted %s not lower than %s", pct, got, prev)
		}
		prev = got
	}

	prev = x.Convert(amount, "RUB", ConvertOptions{}).Converted
	for fixed := 1; fixed <= 5; fixed++ {
		got := x.Convert(amount, "RUB", ConvertOptions{FeeFixed: decimal.NewFromInt(int64(fixed))}).Converted
		if !got.LessThan(prev) {
			t.Fatalf("fixed fee %d: converted %s not lower than %s", fixed, got, prev)
		}
		prev = got
	}
}

func TestExchange_UpsertRate(t *testing.T) {
	x := NewExchange("USD")

	if err := x.UpsertRate("USD", "USD", decimal.NewFromInt(2), Today(), RateSourceManual); err == nil {
		t.Error("UpsertRate(USD, USD) should fail")
	}
	if err := x.UpsertRate("USD", "EUR", decimal.Zero, Today(), RateSourceManual); err == nil {
		t.Error("UpsertRate with zero rate should fail")
	}
	if err := x.UpsertRate("USD", "EUR", decimal.NewFromInt(-1), Today(), RateSourceManual); err == nil {
		t.Error("UpsertRate with negative rate should fail")
	}

	// last write wins for the same ordered pair
	if err := x.UpsertRate("USD", "EUR", decimal.NewFromFloat(0.9), Today(), RateSourceDefault); err != nil {
		t.Fatalf("UpsertRate failed: %v", err)
	}
	if err := x.UpsertRate("USD", "EUR", decimal.NewFromFloat(0.95), Today(), RateSourceAPI); err != nil {
		t.Fatalf("UpsertRate failed: %v", err)
	}
	if got := x.Rate("USD", "EUR").InexactFloat64(); got != 0.95 {
		t.Errorf("Rate(USD, EUR) = %v, want 0.95", got)
	}

	count := 0
	for range x.AllRates() {
		count++
	}
	if count != 1 {
		t.Errorf("AllRates yields %d rows, want 1", count)
	}
}

func TestExchange_Currencies(t *testing.T) {
	x := NewExchange("USD")

	// USD is pre-registered as the base.
	if _, ok := x.Currency("USD"); !ok {
		t.Fatal("base currency should be pre-registered")
	}
	if x.AddCurrency(Currency{Code: "USD", Fraction: 2}) {
		t.Error("AddCurrency should reject a duplicate code")
	}
	if x.AddCurrency(Currency{Code: "usd", Fraction: 2}) {
		t.Error("AddCurrency should reject a lowercase code")
	}
	if !x.AddCurrency(Currency{Code: "EUR", Symbol: "€", Fraction: 2, Thousand: ".", Decimal: ","}) {
		t.Error("AddCurrency(EUR) should succeed")
	}

	if err := x.UpsertRate("USD", "EUR", decimal.NewFromFloat(0.9), Today(), RateSourceManual); err != nil {
		t.Fatalf("UpsertRate failed: %v", err)
	}
	if x.RemoveCurrency("EUR") {
		t.Error("RemoveCurrency should refuse while a rate references the currency")
	}
	if x.RemoveCurrency("CHF") {
		t.Error("RemoveCurrency should refuse an unknown code")
	}

	if !x.AddCurrency(Currency{Code: "GBP", Symbol: "£", Fraction: 2, Thousand: ",", Decimal: "."}) {
		t.Fatal("AddCurrency(GBP) should succeed")
	}
	if !x.RemoveCurrency("GBP") {
		t.Error("RemoveCurrency(GBP) should succeed")
	}
}

func TestExchange_Format(t *testing.T) {
	x := NewExchange("USD")
	x.AddCurrency(Currency{Code: "PTS", Symbol: "pt", Fraction: 0, Thousand: " ", Decimal: ","})

	testCases := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"Registered base", 1234.5, "USD", "$1,234.50"},
		{"Registered custom currency", 12345, "PTS", "pt12 345"},
		{"Unregistered ISO code uses go-money defaults", 1234.5, "EUR", "€1.234,50"},
		{"Unknown code falls back to base", 1234.5, "ZZZ", "$1,234.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := x.Format(decimal.NewFromFloat(tc.amount), tc.code)
			if got != tc.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
			}
		})
	}
}

func TestExchange_Format_NoBase(t *testing.T) {
	// An exchange whose base is not a known ISO code has nothing to fall back
	// on but the plain decimal representation.
	x := NewExchange("QQQ")
	if got := x.Format(decimal.NewFromFloat(1234.5), "ZZZ"); got != "1234.5" {
		t.Errorf("Format = %q, want %q", got, "1234.5")
	}
}
