package renderer

import (
	"fmt"
	"sort"

	"github.com/homebook/homebook"
)

// SplitRow is one owner's line in the split report.
type SplitRow struct {
	Owner      string `json:"owner"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

// Split is the view model behind the split report template.
type Split struct {
	Book  string     `json:"book"`
	Total string     `json:"total"`
	Rows  []SplitRow `json:"rows"`
}

// NewSplit flattens a split report into its renderable view. Rows follow the
// book's configured owner order; owners appearing only in the data come after,
// in id order.
func NewSplit(x *homebook.Exchange, b homebook.Book, report homebook.SplitReport) *Split {
	s := &Split{
		Book:  b.ID,
		Total: format(x, report.TotalExpense),
	}

	seen := make(map[string]bool)
	order := make([]string, 0, len(report.OwnerAmounts))
	for _, share := range homebook.ExpectedSplit(b) {
		if !seen[share.OwnerID] {
			seen[share.OwnerID] = true
			order = append(order, share.OwnerID)
		}
	}
	extras := make([]string, 0)
	for id := range report.OwnerAmounts {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	order = append(order, extras...)

	for _, id := range order {
		amount, ok := report.OwnerAmounts[id]
		if !ok {
			amount = homebook.M(0, report.TotalExpense.Currency())
		}
		s.Rows = append(s.Rows, SplitRow{
			Owner:      b.OwnerName(id),
			Amount:     format(x, amount),
			Percentage: report.OwnerPercentages[id].String(),
		})
	}
	return s
}

// SliderParty is one side of the rendered slider.
type SliderParty struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

// SliderView is the view model behind the slider template.
type SliderView struct {
	Book  string      `json:"book"`
	Left  SliderParty `json:"left"`
	Right SliderParty `json:"right"`
	Value int         `json:"value"`
	Gauge string      `json:"gauge"`
}

// NewSliderView flattens a two-party slider into its renderable view.
func NewSliderView(x *homebook.Exchange, b homebook.Book, s homebook.Slider) *SliderView {
	return &SliderView{
		Book:  b.ID,
		Left:  sliderParty(x, s.Parties[0]),
		Right: sliderParty(x, s.Parties[1]),
		Value: s.Value,
		Gauge: gauge(s.Value),
	}
}

func sliderParty(x *homebook.Exchange, p homebook.SliderParty) SliderParty {
	return SliderParty{
		Name:       p.Name,
		Amount:     format(x, p.Amount),
		Percentage: p.Percentage.String(),
	}
}

// gauge draws the slider position on a fixed 20-notch track.
func gauge(value int) string {
	const notches = 20
	pos := value * notches / 100
	if pos < 0 {
		pos = 0
	}
	if pos > notches {
		pos = notches
	}
	track := make([]rune, notches+1)
	for i := range track {
		track[i] = '-'
	}
	track[pos] = '|'
	return fmt.Sprintf("[%s]", string(track))
}

// format renders a money value with the exchange's currency registry.
func format(x *homebook.Exchange, m homebook.Money) string {
	return x.Format(m.Amount(), m.Currency())
}
