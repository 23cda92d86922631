package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
	"github.com/shopspring/decimal"
)

type txCmd struct {
	book     string
	kind     string
	amount   string
	currency string
	category string
	note     string
	date     string
	owners   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record a transaction" }
func (*txCmd) Usage() string {
	return `hbk tx -book <id> -amount <amount> -currency <code> [-type expense|income|transfer] [-category <id>] [-note <text>] [-d <date>] [-owners <ids>]

  Appends a transaction record to the snapshot file.

Usage Examples:
$ hbk tx -book family -amount 1000 -currency RUB -category renovation -note "tiles"
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.book, "book", "", "Book the transaction belongs to.")
	f.StringVar(&p.kind, "type", "expense", "Transaction type: expense, income, or transfer.")
	f.StringVar(&p.amount, "amount", "", "Transaction amount.")
	f.StringVar(&p.currency, "currency", "", "Transaction currency code.")
	f.StringVar(&p.category, "category", "", "Category id.")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.date, "d", "", "Transaction date (defaults to today).")
	f.StringVar(&p.owners, "owners", "", "Comma-separated responsible owner ids.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.book == "" {
		fmt.Fprintln(os.Stderr, "Error: -book is required")
		return subcommands.ExitUsageError
	}
	var kind homebook.TransactionType
	switch p.kind {
	case "expense":
		kind = homebook.Expense
	case "income":
		kind = homebook.Income
	case "transfer":
		kind = homebook.Transfer
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid -type %q: want expense, income, or transfer\n", p.kind)
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -amount %q: %v\n", p.amount, err)
		return subcommands.ExitUsageError
	}
	if err := homebook.ValidateCurrency(p.currency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -currency: %v\n", err)
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

	var owners []string
	for _, id := range strings.Split(p.owners, ",") {
		if id = strings.TrimSpace(id); id != "" {
			owners = append(owners, id)
		}
	}

	tx := homebook.Transaction{
		Day:                 day,
		Type:                kind,
		Amount:              amount,
		Currency:            p.currency,
		BookID:              p.book,
		CategoryID:          p.category,
		Note:                p.note,
		ResponsibleOwnerIDs: owners,
	}
	status := appendRecord(func(f *os.File) error {
		return homebook.EncodeTransaction(f, tx)
	})
	if status == subcommands.ExitSuccess {
		fmt.Printf("Successfully appended transaction to %s\n", *bookFile)
	}
	return status
}
