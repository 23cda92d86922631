package homebook

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// OwnerShare is one owner's slice of a split, in percent.
type OwnerShare struct {
	OwnerID    string  `json:"owner"`
	Percentage Percent `json:"percentage"`
}

// SplitReport is the observed distribution of expenses across a book's
// owners, in the target currency.
type SplitReport struct {
	TotalExpense     Money              `json:"totalExpense"`
	OwnerAmounts     map[string]Money   `json:"ownerAmounts"`
	OwnerPercentages map[string]Percent `json:"ownerPercentages"`
}

// SliderParty is one side of the two-party split slider.
type SliderParty struct {
	OwnerID    string  `json:"owner"`
	Name       string  `json:"name"`
	Percentage Percent `json:"percentage"`
	Amount     Money   `json:"amount"`
}

// Slider is the UI-facing two-party split: always exactly two parties, and
// the rounded percentage of the first configured owner.
type Slider struct {
	Parties [2]SliderParty `json:"parties"`
	Value   int            `json:"value"`
}

// ExpectedSplit returns the static split configured on the book. A book
// without rules falls back to an equal split across its owners, so the caller
// always gets a usable figure.
func ExpectedSplit(b Book) []OwnerShare {
	if len(b.DistributionRules) > 0 {
		out := make([]OwnerShare, 0, len(b.DistributionRules))
		for _, r := range b.DistributionRules {
			out = append(out, OwnerShare{OwnerID: r.OwnerID, Percentage: r.Percentage})
		}
		return out
	}
	if len(b.OwnerIDs) == 0 {
		return nil
	}
	each := Percent(100 / float64(len(b.OwnerIDs)))
	out := make([]OwnerShare, 0, len(b.OwnerIDs))
	for _, id := range b.OwnerIDs {
		out = append(out, OwnerShare{OwnerID: id, Percentage: each})
	}
	return out
}

// splitOwners returns the owners a split is computed over, in configured
// order: the rule owners when rules exist, else the book owners.
func splitOwners(b Book) []string {
	if len(b.DistributionRules) > 0 {
		owners := make([]string, 0, len(b.DistributionRules))
		for _, r := range b.DistributionRules {
			owners = append(owners, r.OwnerID)
		}
		return owners
	}
	return b.OwnerIDs
}

// ActualSplit computes the observed per-owner expense distribution over the
// given transactions, normalized into the target currency.
//
// Each expense transaction is resolved into the target currency (using the
// precomputed book amount when it already matches), then its absolute value
// is apportioned by, in priority order: the transaction's own rules, the
// book's rules, an equal split across the transaction's responsible owners.
//
// Percentages derive from the amounts when the total is positive; with no
// expense data they fall back to the book's static split. Any malformed
// record degrades the whole computation to the neutral default (zero amounts,
// 50/50) with a logged warning: a distribution display must never crash the
// host view.
func ActualSplit(x *Exchange, b Book, txs []Transaction, target string) SplitReport {
	report := SplitReport{
		TotalExpense:     M(0, target),
		OwnerAmounts:     make(map[string]Money),
		OwnerPercentages: make(map[string]Percent),
	}
	for _, id := range splitOwners(b) {
		report.OwnerAmounts[id] = M(0, target)
	}

	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		amount, err := resolveAmount(x, tx, target)
		if err != nil {
			log.Printf("warning: split aborted, %v, falling back to neutral default", err)
			return neutralSplit(b, target)
		}
		if err := apportion(report.OwnerAmounts, amount, tx, b); err != nil {
			log.Printf("warning: split aborted, %v, falling back to neutral default", err)
			return neutralSplit(b, target)
		}
		report.TotalExpense = report.TotalExpense.Add(amount)
	}

	if report.TotalExpense.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for id, amount := range report.OwnerAmounts {
			share := amount.Amount().Div(report.TotalExpense.Amount()).Mul(hundred)
			report.OwnerPercentages[id] = Percent(share.InexactFloat64())
		}
		return report
	}
	// No expense data: the static split is more informative than 0%/0%.
	for _, s := range ExpectedSplit(b) {
		report.OwnerPercentages[s.OwnerID] = s.Percentage
	}
	return report
}

// resolveAmount normalizes a transaction amount into the target currency,
// returning its absolute value. When the record carries a precomputed book
// amount in the target currency already, the conversion is skipped.
func resolveAmount(x *Exchange, tx Transaction, target string) (Money, error) {
	if tx.BookCurrency == target && !tx.BookAmount.IsZero() {
		return M(tx.BookAmount, target).Abs(), nil
	}
	if tx.Currency == "" {
		return Money{}, fmt.Errorf("transaction on %s has no currency", tx.Day)
	}
	res := x.Convert(tx.Money(), target, ConvertOptions{})
	return res.Converted.Abs(), nil
}

// apportion distributes an amount across owners following the override
// priority: transaction rules, then book rules, then an equal split across
// the responsible owners.
func apportion(amounts map[string]Money, amount Money, tx Transaction, b Book) error {
	rules := tx.DistributionRules
	if len(rules) == 0 {
		rules = b.DistributionRules
	}
	if len(rules) > 0 {
		hundred := decimal.NewFromInt(100)
		for _, r := range rules {
			if r.OwnerID == "" {
				return fmt.Errorf("transaction on %s has a rule without owner", tx.Day)
			}
			if r.Percentage < 0 {
				return fmt.Errorf("transaction on %s has a negative rule percentage %s", tx.Day, r.Percentage)
			}
			share := amount.Mul(decimal.NewFromFloat(float64(r.Percentage))).Div(hundred)
			amounts[r.OwnerID] = amounts[r.OwnerID].Add(share)
		}
		return nil
	}
	if len(tx.ResponsibleOwnerIDs) == 0 {
		return fmt.Errorf("transaction on %s has no rules and no responsible owners", tx.Day)
	}
	share := amount.Div(decimal.NewFromInt(int64(len(tx.ResponsibleOwnerIDs))))
	for _, id := range tx.ResponsibleOwnerIDs {
		amounts[id] = amounts[id].Add(share)
	}
	return nil
}

// neutralSplit is the conservative default: zero amounts and a 50/50 split
// across the first two configured owners (padded with "unknown").
func neutralSplit(b Book, target string) SplitReport {
	report := SplitReport{
		TotalExpense:     M(0, target),
		OwnerAmounts:     make(map[string]Money),
		OwnerPercentages: make(map[string]Percent),
	}
	owners := splitOwners(b)
	if len(owners) == 0 {
		owners = []string{"unknown"}
	}
	if len(owners) == 1 {
		owners = append(owners, "unknown")
	}
	for _, id := range owners[:2] {
		report.OwnerAmounts[id] = M(0, target)
		report.OwnerPercentages[id] = 50
	}
	return report
}

// TwoPartySlider reduces the observed split to the two-party figure driving
// the tug-of-war slider. When fewer than two owners are configured, a
// placeholder second party is synthesized at 100 minus the first percentage
// rather than leaving the pair incomplete.
func TwoPartySlider(x *Exchange, b Book, txs []Transaction, target string) Slider {
	report := ActualSplit(x, b, txs, target)
	owners := splitOwners(b)

	var s Slider
	if len(owners) == 0 {
		s.Parties[0] = SliderParty{OwnerID: "unknown", Name: "unknown", Percentage: 50, Amount: M(0, target)}
		s.Parties[1] = SliderParty{OwnerID: "unknown", Name: "unknown", Percentage: 50, Amount: M(0, target)}
		s.Value = 50
		return s
	}

	first := SliderParty{
		OwnerID:    owners[0],
		Name:       b.OwnerName(owners[0]),
		Percentage: report.OwnerPercentages[owners[0]],
		Amount:     report.OwnerAmounts[owners[0]],
	}
	s.Parties[0] = first

	if len(owners) >= 2 {
		s.Parties[1] = SliderParty{
			OwnerID:    owners[1],
			Name:       b.OwnerName(owners[1]),
			Percentage: report.OwnerPercentages[owners[1]],
			Amount:     report.OwnerAmounts[owners[1]],
		}
	} else {
		s.Parties[1] = SliderParty{
			OwnerID:    "unknown",
			Name:       "unknown",
			Percentage: 100 - first.Percentage,
			Amount:     M(0, target),
		}
	}
	s.Value = first.Percentage.Round()
	return s
}
