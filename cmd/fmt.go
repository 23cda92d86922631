package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
)

type fmtCmd struct {
	write bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the snapshot file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `hbk fmt [-w]

  Validates and formats the snapshot file. This command reads all records,
  groups them by kind in canonical order (currencies, rates, categories,
  books, transactions) and writes the result to stdout. With -w, the file is
  rewritten in place instead.

Usage Examples:
# Print the canonical form to stdout.
$ hbk fmt
# Rewrite the snapshot file in place.
$ hbk fmt -w
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.write, "w", false, "Rewrite the snapshot file in place instead of printing to stdout.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := LoadSnapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !p.write {
		if err := homebook.EncodeSnapshot(os.Stdout, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	tmp := *bookFile + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := homebook.EncodeSnapshot(out, s); err != nil {
		out.Close()
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error formatting snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp, *bookFile); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error replacing %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %s.\n", *bookFile)
	return subcommands.ExitSuccess
}
