package homebook

import (
	"slices"
	"sort"
)

// CategoryType tells which transaction kind a category applies to.
// Transfers carry no category.
type CategoryType string

const (
	ExpenseCategory CategoryType = "expense"
	IncomeCategory  CategoryType = "income"
)

// Category is a grouping label for transactions. Categories form a
// parent/child hierarchy and are attached to the books they are visible in.
type Category struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	ParentID string       `json:"parent,omitempty"`
	Type     CategoryType `json:"type"`
	Order    int          `json:"order,omitempty"` // tie-break sort key
	Archived bool         `json:"archived,omitempty"`
	Books    []string     `json:"books,omitempty"` // book ids the category is attached to
}

// InBook reports whether the category is attached to the given book.
func (c Category) InBook(bookID string) bool {
	return slices.Contains(c.Books, bookID)
}

// Catalog answers hierarchy and visibility queries over a flat list of
// category records. Every query re-derives its result from the current list:
// results are valid for the snapshot at call time only.
//
// All queries are total functions: unknown ids or books yield empty results,
// never an error.
type Catalog struct {
	categories []Category
	index      map[string]int // position by category id
}

// NewCatalog returns a catalog over the given categories.
func NewCatalog(categories ...Category) *Catalog {
	c := &Catalog{}
	c.SetCategories(categories)
	return c
}

// SetCategories replaces the category list wholesale.
func (c *Catalog) SetCategories(categories []Category) {
	c.categories = slices.Clone(categories)
	c.reindex()
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.categories))
	for i, cat := range c.categories {
		c.index[cat.ID] = i
	}
}

// Get returns the category with the given id.
func (c *Catalog) Get(id string) (Category, bool) {
	i, ok := c.index[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Len returns the number of categories in the catalog.
func (c *Catalog) Len() int { return len(c.categories) }

// HasChildren reports whether any category names the given id as its parent.
func (c *Catalog) HasChildren(id string) bool {
	if id == "" {
		return false
	}
	for _, cat := range c.categories {
		if cat.ParentID == id {
			return true
		}
	}
	return false
}

// isRoot reports whether the category acts as a root: it has no parent, or
// its parent reference points to a category that does not exist (an orphan
// behaves as a root for selectability purposes).
func (c *Catalog) isRoot(cat Category) bool {
	if cat.ParentID == "" {
		return true
	}
	_, ok := c.index[cat.ParentID]
	return !ok
}

// hasBookChild reports whether any child of the given id, archived or not, is
// attached to the given book.
func (c *Catalog) hasBookChild(id, bookID string) bool {
	for _, cat := range c.categories {
		if cat.ParentID == id && cat.InBook(bookID) {
			return true
		}
	}
	return false
}

// sortByOrder sorts categories by their order key, ascending. The sort is
// stable: ties keep the original list order.
func sortByOrder(categories []Category) []Category {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Order < categories[j].Order
	})
	return categories
}

// ChildrenOf returns the categories whose parent is parentID, optionally
// restricted to those attached to bookID (empty bookID disables the filter),
// sorted by order.
func (c *Catalog) ChildrenOf(parentID, bookID string) []Category {
	out := make([]Category, 0)
	for _, cat := range c.categories {
		if cat.ParentID != parentID {
			continue
		}
		if bookID != "" && !cat.InBook(bookID) {
			continue
		}
		out = append(out, cat)
	}
	return sortByOrder(out)
}

// ActiveForBook returns the non-archived categories of the given type
// attached to the given book, sorted by order.
func (c *Catalog) ActiveForBook(bookID string, t CategoryType) []Category {
	out := make([]Category, 0)
	for _, cat := range c.categories {
		if cat.InBook(bookID) && cat.Type == t && !cat.Archived {
			out = append(out, cat)
		}
	}
	return sortByOrder(out)
}

// ArchivedForBook returns the archived categories of the given type attached
// to the given book, sorted by order.
func (c *Catalog) ArchivedForBook(bookID string, t CategoryType) []Category {
	out := make([]Category, 0)
	for _, cat := range c.categories {
		if cat.InBook(bookID) && cat.Type == t && cat.Archived {
			out = append(out, cat)
		}
	}
	return sortByOrder(out)
}

// SelectableForBook returns the categories a transaction may be directly
// attached to in the given book. It starts from the active set; a root
// category with any child attached to that book — archived or not — is a pure
// grouping label there and is excluded. Non-root categories are always
// selectable while active.
func (c *Catalog) SelectableForBook(bookID string, t CategoryType) []Category {
	out := make([]Category, 0)
	for _, cat := range c.ActiveForBook(bookID, t) {
		if c.isRoot(cat) && c.hasBookChild(cat.ID, bookID) {
			continue
		}
		out = append(out, cat)
	}
	return out
}

// Add appends a category. It returns false when the id is empty or already
// taken.
func (c *Catalog) Add(cat Category) bool {
	if cat.ID == "" {
		return false
	}
	if _, exists := c.index[cat.ID]; exists {
		return false
	}
	c.categories = append(c.categories, cat)
	c.index[cat.ID] = len(c.categories) - 1
	return true
}

// Update replaces the category with the same id. It returns false when the id
// is unknown.
func (c *Catalog) Update(cat Category) bool {
	i, ok := c.index[cat.ID]
	if !ok {
		return false
	}
	c.categories[i] = cat
	return true
}

// Delete removes a category. It returns false when the id is unknown or the
// category still has children: the caller decides how to surface that.
func (c *Catalog) Delete(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	if c.HasChildren(id) {
		return false
	}
	c.categories = slices.Delete(c.categories, i, i+1)
	c.reindex()
	return true
}

// AttachBook adds the category to a book. It returns false when the id is
// unknown; attaching to an already attached book is a no-op success.
func (c *Catalog) AttachBook(id, bookID string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	if !c.categories[i].InBook(bookID) {
		c.categories[i].Books = append(c.categories[i].Books, bookID)
	}
	return true
}

// DetachBook removes the category from a book. It returns false when the id
// is unknown.
func (c *Catalog) DetachBook(id, bookID string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.categories[i].Books = slices.DeleteFunc(c.categories[i].Books, func(b string) bool {
		return b == bookID
	})
	return true
}
