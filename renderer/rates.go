package renderer

import (
	"bytes"
	"fmt"

	"github.com/homebook/homebook"
	md "github.com/nao1215/markdown"
)

// RatesMarkdown renders the exchange's currency registry and rate table.
func RatesMarkdown(x *homebook.Exchange) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Exchange Rates")
	doc.PlainTextf("Base currency: %s", md.Bold(x.Base()))

	currencies := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Code", "Symbol", "Decimals"},
	}
	for c := range x.AllCurrencies() {
		currencies.Rows = append(currencies.Rows, []string{
			c.Code,
			c.Symbol,
			fmt.Sprintf("%d", c.Fraction),
		})
	}
	if len(currencies.Rows) > 0 {
		doc.H2("Currencies")
		doc.Table(currencies)
	}

	rates := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"From", "To", "Rate", "Date", "Source"},
	}
	for r := range x.AllRates() {
		day := ""
		if !r.Day.IsZero() {
			day = r.Day.String()
		}
		rates.Rows = append(rates.Rows, []string{
			r.From,
			r.To,
			r.Rate.String(),
			day,
			string(r.Source),
		})
	}
	if len(rates.Rows) > 0 {
		doc.H2("Rates")
		doc.Table(rates)
	}

	return doc.String()
}

// ConversionMarkdown renders the outcome of a single conversion.
func ConversionMarkdown(x *homebook.Exchange, from homebook.Money, res homebook.ConversionResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Conversion")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"", ""},
		Rows: [][]string{
			{"From", format(x, from)},
			{"Rate", res.AppliedRate.String()},
			{"Fee", format(x, res.Fee)},
			{md.Bold("Converted"), md.Bold(format(x, res.Converted))},
		},
	})

	return doc.String()
}
