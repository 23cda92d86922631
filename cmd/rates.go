package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
	"github.com/homebook/homebook/renderer"
)

type ratesCmd struct {
	fetch   bool
	symbols string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list exchange rates, optionally fetching fresh ones" }
func (*ratesCmd) Usage() string {
	return `hbk rates [-fetch [-symbols <codes>]]

  Lists the currencies and exchange rates known to the ledger. With -fetch,
  pulls the latest reference rates for the base currency from frankfurter.app
  and appends them to the snapshot file before listing.

Usage Examples:
$ hbk rates
$ hbk rates -fetch -symbols EUR,RUB
`
}

func (p *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.fetch, "fetch", false, "Fetch the latest reference rates before listing.")
	f.StringVar(&p.symbols, "symbols", "", "Comma-separated currency codes to fetch. All published codes by default.")
}

func (p *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.fetch {
		if status := p.fetchRates(); status != subcommands.ExitSuccess {
			return status
		}
	}

	s, err := LoadSnapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RatesMarkdown(s.Exchange(*baseCurrency)))

	return subcommands.ExitSuccess
}

func (p *ratesCmd) fetchRates() subcommands.ExitStatus {
	var symbols []string
	if p.symbols != "" {
		for _, code := range strings.Split(p.symbols, ",") {
			if code = strings.TrimSpace(code); code != "" {
				symbols = append(symbols, code)
			}
		}
	}
	rows, err := homebook.FetchLatestRates(homebook.DailyClient(), *baseCurrency, symbols...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching rates: %v\n", err)
		return subcommands.ExitFailure
	}

	status := appendRecord(func(f *os.File) error {
		for _, row := range rows {
			if err := homebook.EncodeRate(f, row); err != nil {
				return err
			}
		}
		return nil
	})
	if status == subcommands.ExitSuccess {
		fmt.Fprintf(os.Stderr, "Fetched %d rates for %s.\n", len(rows), *baseCurrency)
	}
	return status
}
