package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
	"github.com/homebook/homebook/renderer"
	"github.com/shopspring/decimal"
)

type convertCmd struct {
	amount     string
	from       string
	to         string
	feePercent string
	feeFixed   string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between currencies" }
func (*convertCmd) Usage() string {
	return `hbk convert -amount <amount> -from <code> -to <code> [-fee-percent <pct>] [-fee-fixed <amount>]

  Converts an amount using the ledger's exchange rates: direct rate first,
  then the reciprocal of the inverse rate, then a cross rate through the base
  currency. The optional fee is subtracted from the result.

Usage Examples:
$ hbk convert -amount 100 -from USD -to RUB
$ hbk convert -amount 100 -from USD -to RUB -fee-percent 1.5 -fee-fixed 2
`
}

func (p *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.amount, "amount", "", "Amount to convert.")
	f.StringVar(&p.from, "from", "", "Source currency code.")
	f.StringVar(&p.to, "to", "", "Target currency code.")
	f.StringVar(&p.feePercent, "fee-percent", "0", "Conversion fee as a percentage of the converted amount.")
	f.StringVar(&p.feeFixed, "fee-fixed", "0", "Fixed conversion fee in the target currency.")
}

func (p *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -amount %q: %v\n", p.amount, err)
		return subcommands.ExitUsageError
	}
	if err := homebook.ValidateCurrency(p.from); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := homebook.ValidateCurrency(p.to); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	feePercent, err := decimal.NewFromString(p.feePercent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -fee-percent %q: %v\n", p.feePercent, err)
		return subcommands.ExitUsageError
	}
	feeFixed, err := decimal.NewFromString(p.feeFixed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -fee-fixed %q: %v\n", p.feeFixed, err)
		return subcommands.ExitUsageError
	}

	s, err := LoadSnapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	x := s.Exchange(*baseCurrency)
	money := homebook.M(amount, p.from)
	res := x.Convert(money, p.to, homebook.ConvertOptions{FeePercent: feePercent, FeeFixed: feeFixed})
	printMarkdown(renderer.ConversionMarkdown(x, money, res))

	return subcommands.ExitSuccess
}
