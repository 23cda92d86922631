package homebook

import (
	"github.com/shopspring/decimal"
)

// TransactionType tells what a transaction does to a book.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// DistributionRule apportions a share of an expense or income to one owner.
// Percentages are not validated to sum to 100 across a rule set.
type DistributionRule struct {
	OwnerID    string  `json:"owner"`
	Percentage Percent `json:"percentage"`
}

// Book is a ledger scope (personal, family) with its own currency and
// optional ownership-split rules.
type Book struct {
	ID                string             `json:"id"`
	Currency          string             `json:"currency"`
	OwnerIDs          []string           `json:"owners"`
	OwnerNames        map[string]string  `json:"ownerNames,omitempty"`
	DistributionRules []DistributionRule `json:"distributionRules,omitempty"`
}

// SharingActive reports whether the book carries a usable ownership split:
// at least two configured rules.
func (b Book) SharingActive() bool { return len(b.DistributionRules) >= 2 }

// OwnerName returns the display name for an owner, falling back to the id.
func (b Book) OwnerName(id string) string {
	if name, ok := b.OwnerNames[id]; ok && name != "" {
		return name
	}
	return id
}

// Transaction is a single ledger entry as consumed by the computation engine.
// The engine never mutates transactions; they are read-only inputs.
type Transaction struct {
	Day      Date            `json:"date,omitzero"`
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	// BookAmount/BookCurrency optionally carry the amount precomputed in the
	// book currency, used as a fast path when it already matches the target.
	BookAmount   decimal.Decimal `json:"bookAmount,omitzero"`
	BookCurrency string          `json:"bookCurrency,omitempty"`
	BookID       string          `json:"book,omitempty"`
	CategoryID   string          `json:"category,omitempty"`
	Note         string          `json:"note,omitempty"`
	// DistributionRules override the book's rules for this transaction alone.
	DistributionRules []DistributionRule `json:"distributionRules,omitempty"`
	// ResponsibleOwnerIDs is the equal-split fallback when no rules exist.
	ResponsibleOwnerIDs []string `json:"responsibleOwners,omitempty"`
}

// Money returns the transaction amount in its own currency.
func (t Transaction) Money() Money { return M(t.Amount, t.Currency) }
