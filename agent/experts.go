package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/homebook/homebook"
	"github.com/homebook/homebook/docs"
	"github.com/homebook/homebook/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// SnapshotFile is the ledger snapshot the bookkeeper reads. The CLI sets it
// from its own flag before starting the agent.
var SnapshotFile = "homebook.jsonl"

// BaseCurrency is the cross-rate base the bookkeeper converts through.
var BaseCurrency = "USD"

// newFacilitator creates the conversation lead, delegating to the experts.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand his family finances: what was spent, in which
			currency, in which category, and how expenses are shared between owners.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewBookkeeper creates the expert in charge of the user's ledger snapshot.
func NewBookkeeper() *Expert {
	lib := []Function{ConvertFunc, SplitFunc, CategoriesFunc, RatesFunc}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's ledger:
		books, categories, currencies, exchange rates, and shared-expense splits.
		Ask him for any figure about the user's spending.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's family ledger.
				You know how to use the Tools to extract relevant information:
				  - currency conversion with the ledger's exchange rates
				  - expense splits between book owners
				  - the categories available in each book
				  - the known currencies and rates
				You are part of a team of experts; pardon their approximative language
				and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func outputResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

// ConvertFunc converts an amount between two ledger currencies.
var ConvertFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "Convert",
		Description: "Convert an amount from one currency to another using the ledger's exchange rates.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"amount": {Type: genai.TypeNumber, Description: "The amount to convert."},
				"from":   {Type: genai.TypeString, Description: "The source currency code, e.g. USD."},
				"to":     {Type: genai.TypeString, Description: "The target currency code, e.g. RUB."},
			},
			Required: []string{"amount", "from", "to"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted conversion summary with the applied rate.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		amount, ok := args["amount"].(float64)
		if !ok {
			return errorResponse(id, "Convert", fmt.Errorf("argument 'amount' is not a number but %T", args["amount"]))
		}
		from, _ := args["from"].(string)
		to, _ := args["to"].(string)

		s, err := loadSnapshot()
		if err != nil {
			return errorResponse(id, "Convert", err)
		}
		x := s.Exchange(BaseCurrency)
		money := homebook.M(decimal.NewFromFloat(amount), from)
		res := x.Convert(money, to, homebook.ConvertOptions{})
		return outputResponse(id, "Convert", renderer.ConversionMarkdown(x, money, res))
	},
}

// SplitFunc computes the expense split of a book.
var SplitFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Split",
		Description: `Split computes how the expenses of a shared book are distributed
		between its owners, in the book's currency.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"book": {Type: genai.TypeString, Description: "The book id, e.g. family."},
			},
			Required: []string{"book"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted split report with per-owner amounts and percentages.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		bookID, _ := args["book"].(string)
		s, err := loadSnapshot()
		if err != nil {
			return errorResponse(id, "Split", err)
		}
		b, ok := s.Book(bookID)
		if !ok {
			return errorResponse(id, "Split", fmt.Errorf("unknown book %q", bookID))
		}
		x := s.Exchange(BaseCurrency)
		report := homebook.ActualSplit(x, b, s.BookTransactions(b.ID), b.Currency)
		return outputResponse(id, "Split", renderer.RenderSplit(renderer.NewSplit(x, b, report)))
	},
}

// CategoriesFunc lists the selectable categories of a book.
var CategoriesFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Categories",
		Description: `Categories lists the expense categories of a book: the full hierarchy
		with grouping labels and archived entries marked.

		` + must(docs.GetTopic("categories")),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"book": {Type: genai.TypeString, Description: "The book id, e.g. family."},
			},
			Required: []string{"book"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted category tree.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		bookID, _ := args["book"].(string)
		s, err := loadSnapshot()
		if err != nil {
			return errorResponse(id, "Categories", err)
		}
		return outputResponse(id, "Categories",
			renderer.CategoryTreeMarkdown(s.Catalog(), bookID, homebook.ExpenseCategory))
	},
}

// RatesFunc lists the known currencies and exchange rates.
var RatesFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "Rates",
		Description: "Rates lists the currencies and exchange rates known to the ledger.",
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table of currencies and rates.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		s, err := loadSnapshot()
		if err != nil {
			return errorResponse(id, "Rates", err)
		}
		return outputResponse(id, "Rates", renderer.RatesMarkdown(s.Exchange(BaseCurrency)))
	},
}

// loadSnapshot reads the snapshot file. A missing file is an empty ledger.
func loadSnapshot() (*homebook.Snapshot, error) {
	f, err := os.Open(SnapshotFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &homebook.Snapshot{}, nil
		}
		return nil, fmt.Errorf("could not open snapshot file %q: %w", SnapshotFile, err)
	}
	defer f.Close()

	s, err := homebook.DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot file %q: %w", SnapshotFile, err)
	}
	return s, nil
}
