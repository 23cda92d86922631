package homebook

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	{
	    "amount": 1.0,
	    "base": "USD",
	    "date": "2025-08-29",
	    "rates": {
	        "EUR": 0.92,
	        "IDR": 16500,
	        "RUB": 75.5
	    }
	}
*/

// FetchLatestRates fetches the latest reference rates for the base currency
// from frankfurter.app (ECB data, published once per working day) and returns
// them as base→symbol rows tagged with the "api" source.
//
// When symbols is empty the provider returns every currency it publishes.
func FetchLatestRates(client *http.Client, base string, symbols ...string) ([]ExchangeRate, error) {
	addr := "https://api.frankfurter.app/latest?base=" + url.QueryEscape(base)
	if len(symbols) > 0 {
		addr += "&symbols=" + url.QueryEscape(strings.Join(symbols, ","))
	}

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching rates for %q: %w", base, err)
	}

	day := Today()
	if jval, err := jsonpath.Get("$.date", jobj); err == nil {
		if s, ok := jval.(string); ok {
			if parsed, err := ParseDate(s); err == nil {
				day = parsed
			}
		}
	}

	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing rates for %q: %w", base, err)
	}
	jrates, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing rates for %q: not an object %v", base, jval)
	}

	// deterministic order makes the output diffable
	codes := make([]string, 0, len(jrates))
	for code := range jrates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rates := make([]ExchangeRate, 0, len(codes))
	for _, code := range codes {
		val, ok := jrates[code].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing rate for %q: not a float %v", code, jrates[code])
		}
		rates = append(rates, ExchangeRate{
			From:   base,
			To:     code,
			Rate:   decimal.NewFromFloat(val),
			Day:    day,
			Source: RateSourceAPI,
		})
	}
	return rates, nil
}
