// Package cmd implements the CLI application to work with a homebook ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/homebook/homebook"
)

// Register the subcommands.
// A main package calls Register() to declare the subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&convertCmd{}, "currencies")
	c.Register(&rateCmd{}, "currencies")
	c.Register(&ratesCmd{}, "currencies")

	c.Register(&categoriesCmd{}, "categories")

	c.Register(&splitCmd{}, "sharing")
	c.Register(&txCmd{}, "sharing")

	c.Register(&fmtCmd{}, "ledger")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book-file", "homebook.jsonl", "Path to the ledger snapshot file (JSONL format)")
var baseCurrency = flag.String("base-currency", "USD", "Base currency used for cross-rate resolution")

// LoadSnapshot reads the app snapshot file. A missing file is an empty ledger.
func LoadSnapshot() (*homebook.Snapshot, error) {
	f, err := os.Open(*bookFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("warning, snapshot file does not exist, using an empty ledger instead")
			return &homebook.Snapshot{}, nil
		}
		return nil, fmt.Errorf("could not open snapshot file %q: %w", *bookFile, err)
	}
	defer f.Close()

	s, err := homebook.DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot file %q: %w", *bookFile, err)
	}
	return s, nil
}

// appendRecord appends records to the app snapshot file through the given
// encoding function.
func appendRecord(encode func(f *os.File) error) subcommands.ExitStatus {
	f, err := os.OpenFile(*bookFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot file %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := encode(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to snapshot file %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
