package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
	"github.com/shopspring/decimal"
)

type rateCmd struct {
	from string
	to   string
	rate string
	date string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "record a manual exchange rate" }
func (*rateCmd) Usage() string {
	return `hbk rate -from <code> -to <code> -rate <value> [-d <date>]

  Appends a manual rate record to the snapshot file. One unit of the source
  currency is worth the given value in the target currency. A later rate for
  the same pair wins over an earlier one.

Usage Examples:
$ hbk rate -from USD -to RUB -rate 75.5
`
}

func (p *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Source currency code.")
	f.StringVar(&p.to, "to", "", "Target currency code.")
	f.StringVar(&p.rate, "rate", "", "Units of the target currency per unit of the source currency.")
	f.StringVar(&p.date, "d", "", "Rate date (defaults to today).")
}

func (p *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := homebook.ValidateCurrency(p.from); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := homebook.ValidateCurrency(p.to); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	if p.from == p.to {
		fmt.Fprintln(os.Stderr, "Error: -from and -to must differ")
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(p.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -rate %q: %v\n", p.rate, err)
		return subcommands.ExitUsageError
	}
	if !rate.IsPositive() {
		fmt.Fprintf(os.Stderr, "Error: invalid -rate %s: must be positive\n", rate)
		return subcommands.ExitUsageError
	}

	day := homebook.Today()
	if p.date != "" {
		day, err = homebook.ParseDate(p.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	row := homebook.ExchangeRate{
		From:   p.from,
		To:     p.to,
		Rate:   rate,
		Day:    day,
		Source: homebook.RateSourceManual,
	}
	status := appendRecord(func(f *os.File) error {
		return homebook.EncodeRate(f, row)
	})
	if status == subcommands.ExitSuccess {
		fmt.Printf("Recorded rate %s %s = %s %s\n", "1", p.from, rate, p.to)
	}
	return status
}
