package homebook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType discriminates the lines of a snapshot file.
type RecordType string

const (
	RecordCurrency RecordType = "currency"
	RecordRate     RecordType = "rate"
	RecordCategory RecordType = "category"
	RecordBook     RecordType = "book"
	RecordTx       RecordType = "tx"
)

// Snapshot is the set of entity records the computation engine consumes,
// materialized in memory. The engine never writes it back anywhere; encoding
// exists so the CLI can emit a canonical form to stdout.
type Snapshot struct {
	Currencies   []Currency
	Rates        []ExchangeRate
	Categories   []Category
	Books        []Book
	Transactions []Transaction
}

// Exchange builds the conversion engine over the snapshot's currencies and
// rates, with the given base currency.
func (s *Snapshot) Exchange(base string) *Exchange {
	x := NewExchange(base)
	for _, c := range s.Currencies {
		x.AddCurrency(c)
	}
	for _, r := range s.Rates {
		if err := x.UpsertRate(r.From, r.To, r.Rate, r.Day, r.Source); err != nil {
			log.Printf("warning: skipping rate row: %v", err)
		}
	}
	return x
}

// Catalog builds the hierarchy resolver over the snapshot's categories.
func (s *Snapshot) Catalog() *Catalog {
	return NewCatalog(s.Categories...)
}

// Book returns the book with the given id.
func (s *Snapshot) Book(id string) (Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// BookTransactions returns the transactions recorded against a book, in file
// order.
func (s *Snapshot) BookTransactions(bookID string) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range s.Transactions {
		if tx.BookID == bookID {
			out = append(out, tx)
		}
	}
	return out
}

// DecodeSnapshot reads records from a stream of JSONL data: one record per
// line, discriminated by its "record" field.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case RecordCurrency:
			var c Currency
			if err := json.Unmarshal(lineBytes, &c); err != nil {
				return nil, fmt.Errorf("invalid currency record: %w", err)
			}
			s.Currencies = append(s.Currencies, c)
		case RecordRate:
			var r ExchangeRate
			if err := json.Unmarshal(lineBytes, &r); err != nil {
				return nil, fmt.Errorf("invalid rate record: %w", err)
			}
			s.Rates = append(s.Rates, r)
		case RecordCategory:
			var c Category
			if err := json.Unmarshal(lineBytes, &c); err != nil {
				return nil, fmt.Errorf("invalid category record: %w", err)
			}
			s.Categories = append(s.Categories, c)
		case RecordBook:
			var b Book
			if err := json.Unmarshal(lineBytes, &b); err != nil {
				return nil, fmt.Errorf("invalid book record: %w", err)
			}
			s.Books = append(s.Books, b)
		case RecordTx:
			var tx Transaction
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("invalid tx record: %w", err)
			}
			s.Transactions = append(s.Transactions, tx)
		default:
			return nil, fmt.Errorf("unknown record type %q in line %q", identifier.Record, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read snapshot: %w", err)
	}
	return s, nil
}

// encodeRecord writes one record line with the discriminator first, so the
// files stay greppable by kind.
func encodeRecord(w io.Writer, kind RecordType, v any) error {
	var jw jsonObjectWriter
	jw.Append("record", kind)
	jw.EmbedFrom(v)
	line, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode %s record: %w", kind, err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeRate writes a single rate record line, for appending to a snapshot file.
func EncodeRate(w io.Writer, r ExchangeRate) error {
	return encodeRecord(w, RecordRate, r)
}

// EncodeTransaction writes a single transaction record line, for appending to
// a snapshot file.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	return encodeRecord(w, RecordTx, tx)
}

// EncodeSnapshot writes the snapshot in canonical JSONL form: currencies,
// rates, categories, books, then transactions, one record per line.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	for _, c := range s.Currencies {
		if err := encodeRecord(w, RecordCurrency, c); err != nil {
			return err
		}
	}
	for _, r := range s.Rates {
		if err := encodeRecord(w, RecordRate, r); err != nil {
			return err
		}
	}
	for _, c := range s.Categories {
		if err := encodeRecord(w, RecordCategory, c); err != nil {
			return err
		}
	}
	for _, b := range s.Books {
		if err := encodeRecord(w, RecordBook, b); err != nil {
			return err
		}
	}
	for _, tx := range s.Transactions {
		if err := encodeRecord(w, RecordTx, tx); err != nil {
			return err
		}
	}
	return nil
}
