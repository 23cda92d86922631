package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
	"github.com/homebook/homebook/renderer"
)

type splitCmd struct {
	book     string
	currency string
	slider   bool
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "show how a book's expenses are shared between owners" }
func (*splitCmd) Usage() string {
	return `hbk split -book <id> [-currency <code>] [-slider]

  Computes the observed expense distribution of a shared book: every expense
  is normalized into the target currency and apportioned by the transaction's
  rules, the book's rules, or an equal split across the responsible owners.
  With -slider, reduces the report to the two-party slider figure.

Usage Examples:
$ hbk split -book family
$ hbk split -book family -slider
`
}

func (p *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.book, "book", "", "Book id to compute the split for.")
	f.StringVar(&p.currency, "currency", "", "Target currency (defaults to the book's currency).")
	f.BoolVar(&p.slider, "slider", false, "Show the two-party slider instead of the full report.")
}

func (p *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := LoadSnapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	b, ok := s.Book(p.book)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown book %q\n", p.book)
		return subcommands.ExitFailure
	}
	target := p.currency
	if target == "" {
		target = b.Currency
	}

	x := s.Exchange(*baseCurrency)
	txs := s.BookTransactions(b.ID)

	if p.slider {
		slider := homebook.TwoPartySlider(x, b, txs, target)
		printMarkdown(renderer.RenderSlider(renderer.NewSliderView(x, b, slider)))
		return subcommands.ExitSuccess
	}

	report := homebook.ActualSplit(x, b, txs, target)
	printMarkdown(renderer.RenderSplit(renderer.NewSplit(x, b, report)))

	return subcommands.ExitSuccess
}
