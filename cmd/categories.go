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

type categoriesCmd struct {
	book       string
	kind       string
	selectable bool
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "show the category hierarchy of a book" }
func (*categoriesCmd) Usage() string {
	return `hbk categories -book <id> [-type expense|income] [-selectable]

  Shows the category hierarchy visible in a book. Grouping labels (roots with
  children attached to the book) and archived entries are marked. With
  -selectable, shows only the flat list a transaction form would offer.

Usage Examples:
$ hbk categories -book family
$ hbk categories -book family -selectable
`
}

func (p *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.book, "book", "", "Book id to resolve visibility against.")
	f.StringVar(&p.kind, "type", "expense", "Category type: expense or income.")
	f.BoolVar(&p.selectable, "selectable", false, "Show only the selectable categories.")
}

func (p *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var kind homebook.CategoryType
	switch p.kind {
	case "expense":
		kind = homebook.ExpenseCategory
	case "income":
		kind = homebook.IncomeCategory
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid -type %q: want expense or income\n", p.kind)
		return subcommands.ExitUsageError
	}

	s, err := LoadSnapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	catalog := s.Catalog()
	if p.selectable {
		printMarkdown(renderer.SelectableMarkdown(catalog, p.book, kind))
	} else {
		printMarkdown(renderer.CategoryTreeMarkdown(catalog, p.book, kind))
	}

	return subcommands.ExitSuccess
}
