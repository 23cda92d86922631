package homebook

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func newFamilyBook() Book {
	return Book{
		ID:       "family",
		Currency: "RUB",
		OwnerIDs: []string{"user_1", "user_2"},
		OwnerNames: map[string]string{
			"user_1": "Alice",
			"user_2": "Bob",
		},
		DistributionRules: []DistributionRule{
			{OwnerID: "user_1", Percentage: 50},
			{OwnerID: "user_2", Percentage: 50},
		},
	}
}

func expense(amount float64, currency string) Transaction {
	return Transaction{
		Day:      MustParse("2025-08-15"),
		Type:     Expense,
		Amount:   decimal.NewFromFloat(amount),
		Currency: currency,
	}
}

func approx(t *testing.T, label string, got Money, want float64) {
	t.Helper()
	if v := got.Amount().InexactFloat64(); math.Abs(v-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", label, v, want)
	}
}

func approxPct(t *testing.T, label string, got Percent, want float64) {
	t.Helper()
	if !got.Equal(Percent(want)) {
		t.Errorf("%s = %v, want %v", label, float64(got), want)
	}
}

func TestExpectedSplit(t *testing.T) {
	t.Run("Configured rules pass through", func(t *testing.T) {
		b := newFamilyBook()
		b.DistributionRules = []DistributionRule{
			{OwnerID: "user_1", Percentage: 70},
			{OwnerID: "user_2", Percentage: 30},
		}
		got := ExpectedSplit(b)
		if len(got) != 2 || got[0].OwnerID != "user_1" || got[0].Percentage != 70 || got[1].Percentage != 30 {
			t.Errorf("ExpectedSplit = %v", got)
		}
	})

	t.Run("No rules falls back to equal split", func(t *testing.T) {
		b := newFamilyBook()
		b.DistributionRules = nil
		got := ExpectedSplit(b)
		if len(got) != 2 {
			t.Fatalf("ExpectedSplit yields %d shares, want 2", len(got))
		}
		for _, s := range got {
			approxPct(t, "share "+s.OwnerID, s.Percentage, 50)
		}
	})

	t.Run("Empty book yields nothing", func(t *testing.T) {
		if got := ExpectedSplit(Book{}); got != nil {
			t.Errorf("ExpectedSplit = %v, want nil", got)
		}
	})
}

func TestActualSplit_BookRules(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	txs := []Transaction{expense(1000, "RUB")}

	got := ActualSplit(x, b, txs, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 1000)
	approx(t, "user_1 amount", got.OwnerAmounts["user_1"], 500)
	approx(t, "user_2 amount", got.OwnerAmounts["user_2"], 500)
	approxPct(t, "user_1 pct", got.OwnerPercentages["user_1"], 50)
	approxPct(t, "user_2 pct", got.OwnerPercentages["user_2"], 50)
}

func TestActualSplit_TransactionOverride(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	tx := expense(1000, "RUB")
	tx.DistributionRules = []DistributionRule{
		{OwnerID: "user_1", Percentage: 70},
		{OwnerID: "user_2", Percentage: 30},
	}

	got := ActualSplit(x, b, []Transaction{tx}, "RUB")
	approx(t, "user_1 amount", got.OwnerAmounts["user_1"], 700)
	approx(t, "user_2 amount", got.OwnerAmounts["user_2"], 300)
	approxPct(t, "user_1 pct", got.OwnerPercentages["user_1"], 70)
	approxPct(t, "user_2 pct", got.OwnerPercentages["user_2"], 30)
}

func TestActualSplit_ResponsibleOwnersFallback(t *testing.T) {
	x := NewExchange("RUB")
	b := Book{ID: "family", Currency: "RUB", OwnerIDs: []string{"user_1", "user_2"}}
	tx := expense(1000, "RUB")
	tx.ResponsibleOwnerIDs = []string{"user_1", "user_2"}

	got := ActualSplit(x, b, []Transaction{tx}, "RUB")
	approx(t, "user_1 amount", got.OwnerAmounts["user_1"], 500)
	approx(t, "user_2 amount", got.OwnerAmounts["user_2"], 500)
}

func TestActualSplit_SkipsNonExpenses(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	income := expense(5000, "RUB")
	income.Type = Income
	transfer := expense(200, "RUB")
	transfer.Type = Transfer

	got := ActualSplit(x, b, []Transaction{income, transfer, expense(1000, "RUB")}, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 1000)
}

func TestActualSplit_ConvertsForeignCurrency(t *testing.T) {
	x := NewExchange("USD")
	if err := x.UpsertRate("USD", "RUB", decimal.NewFromFloat(75.5), Today(), RateSourceManual); err != nil {
		t.Fatalf("UpsertRate failed: %v", err)
	}
	b := newFamilyBook()

	got := ActualSplit(x, b, []Transaction{expense(10, "USD")}, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 755)
	approx(t, "user_1 amount", got.OwnerAmounts["user_1"], 377.5)
}

func TestActualSplit_PrecomputedBookAmount(t *testing.T) {
	// The record claims an impossible source currency, but the precomputed book
	// amount already matches the target, so no conversion may happen.
	x := NewExchange("RUB")
	b := newFamilyBook()
	tx := expense(10, "XXX")
	tx.BookAmount = decimal.NewFromInt(755)
	tx.BookCurrency = "RUB"

	got := ActualSplit(x, b, []Transaction{tx}, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 755)
}

func TestActualSplit_NegativeAmountsCountAbsolute(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()

	got := ActualSplit(x, b, []Transaction{expense(-1000, "RUB")}, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 1000)
}

func TestActualSplit_NoDataUsesStaticPercentages(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	b.DistributionRules = []DistributionRule{
		{OwnerID: "user_1", Percentage: 70},
		{OwnerID: "user_2", Percentage: 30},
	}

	got := ActualSplit(x, b, nil, "RUB")
	approx(t, "TotalExpense", got.TotalExpense, 0)
	approxPct(t, "user_1 pct", got.OwnerPercentages["user_1"], 70)
	approxPct(t, "user_2 pct", got.OwnerPercentages["user_2"], 30)
}

func TestActualSplit_MalformedDegradesToNeutral(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()

	testCases := []struct {
		name string
		tx   Transaction
	}{
		{"Missing currency", Transaction{Day: Today(), Type: Expense, Amount: decimal.NewFromInt(100)}},
		{"Rule without owner", func() Transaction {
			tx := expense(100, "RUB")
			tx.DistributionRules = []DistributionRule{{OwnerID: "", Percentage: 100}}
			return tx
		}()},
		{"Negative rule percentage", func() Transaction {
			tx := expense(100, "RUB")
			tx.DistributionRules = []DistributionRule{{OwnerID: "user_1", Percentage: -10}}
			return tx
		}()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ActualSplit(x, b, []Transaction{tc.tx}, "RUB")
			approx(t, "TotalExpense", got.TotalExpense, 0)
			approxPct(t, "user_1 pct", got.OwnerPercentages["user_1"], 50)
			approxPct(t, "user_2 pct", got.OwnerPercentages["user_2"], 50)
			approx(t, "user_1 amount", got.OwnerAmounts["user_1"], 0)
		})
	}
}

func TestActualSplit_Conservation(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	b.DistributionRules = []DistributionRule{
		{OwnerID: "user_1", Percentage: 62.5},
		{OwnerID: "user_2", Percentage: 37.5},
	}
	txs := []Transaction{expense(1000, "RUB"), expense(240, "RUB"), expense(17.5, "RUB")}

	got := ActualSplit(x, b, txs, "RUB")

	sum := M(0, "RUB")
	for _, amount := range got.OwnerAmounts {
		sum = sum.Add(amount)
	}
	approx(t, "sum of owner amounts", sum, got.TotalExpense.Amount().InexactFloat64())

	var pct float64
	for _, p := range got.OwnerPercentages {
		pct += float64(p)
	}
	if math.Abs(pct-100) > 0.01 {
		t.Errorf("percentages sum to %v, want 100", pct)
	}
}

func TestTwoPartySlider(t *testing.T) {
	x := NewExchange("RUB")
	b := newFamilyBook()
	b.DistributionRules = []DistributionRule{
		{OwnerID: "user_1", Percentage: 70},
		{OwnerID: "user_2", Percentage: 30},
	}

	got := TwoPartySlider(x, b, []Transaction{expense(1000, "RUB")}, "RUB")
	if got.Parties[0].OwnerID != "user_1" || got.Parties[1].OwnerID != "user_2" {
		t.Fatalf("parties = %v", got.Parties)
	}
	if got.Parties[0].Name != "Alice" || got.Parties[1].Name != "Bob" {
		t.Errorf("party names = %q, %q", got.Parties[0].Name, got.Parties[1].Name)
	}
	approx(t, "first amount", got.Parties[0].Amount, 700)
	approx(t, "second amount", got.Parties[1].Amount, 300)
	if got.Value != 70 {
		t.Errorf("Value = %d, want 70", got.Value)
	}
}

func TestTwoPartySlider_SingleOwner(t *testing.T) {
	x := NewExchange("RUB")
	b := Book{
		ID:                "my",
		Currency:          "RUB",
		OwnerIDs:          []string{"user_1"},
		DistributionRules: []DistributionRule{{OwnerID: "user_1", Percentage: 70}},
	}

	got := TwoPartySlider(x, b, nil, "RUB")
	if got.Parties[0].OwnerID != "user_1" {
		t.Fatalf("first party = %v", got.Parties[0])
	}
	if got.Parties[1].OwnerID != "unknown" {
		t.Errorf("second party = %q, want synthesized unknown", got.Parties[1].OwnerID)
	}
	approxPct(t, "first pct", got.Parties[0].Percentage, 70)
	approxPct(t, "second pct", got.Parties[1].Percentage, 30)
	if got.Value != 70 {
		t.Errorf("Value = %d, want 70", got.Value)
	}
}

func TestTwoPartySlider_NoOwners(t *testing.T) {
	x := NewExchange("RUB")
	got := TwoPartySlider(x, Book{ID: "empty", Currency: "RUB"}, nil, "RUB")
	if got.Value != 50 {
		t.Errorf("Value = %d, want 50", got.Value)
	}
	for i, p := range got.Parties {
		if p.OwnerID != "unknown" {
			t.Errorf("party %d = %q, want unknown", i, p.OwnerID)
		}
		approxPct(t, "pct", p.Percentage, 50)
	}
}
