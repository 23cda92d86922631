package renderer

import (
	"bytes"
	"fmt"

	"github.com/homebook/homebook"
	md "github.com/nao1215/markdown"
)

// CategoryTreeMarkdown renders the category hierarchy visible in a book, with
// archived entries struck through and pure grouping labels marked.
func CategoryTreeMarkdown(c *homebook.Catalog, bookID string, t homebook.CategoryType) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s categories", t))
	if bookID != "" {
		doc.PlainTextf("Book: %s", md.Bold(bookID))
	}

	selectable := make(map[string]bool)
	for _, cat := range c.SelectableForBook(bookID, t) {
		selectable[cat.ID] = true
	}

	items := make([]string, 0)
	for _, root := range c.ChildrenOf("", bookID) {
		if root.Type != t {
			continue
		}
		items = append(items, categoryItem(root, selectable))
		for _, child := range c.ChildrenOf(root.ID, bookID) {
			if child.Type != t {
				continue
			}
			items = append(items, "  "+categoryItem(child, selectable))
		}
	}
	doc.BulletList(items...)

	return doc.String()
}

func categoryItem(cat homebook.Category, selectable map[string]bool) string {
	label := cat.Name
	if label == "" {
		label = cat.ID
	}
	switch {
	case cat.Archived:
		return md.Strikethrough(label) + " (archived)"
	case !selectable[cat.ID]:
		return md.Bold(label) + " (group)"
	default:
		return label
	}
}

// SelectableMarkdown renders the flat list a transaction form would offer.
func SelectableMarkdown(c *homebook.Catalog, bookID string, t homebook.CategoryType) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Selectable %s categories", t))
	doc.PlainTextf("Book: %s", md.Bold(bookID))

	items := make([]string, 0)
	for _, cat := range c.SelectableForBook(bookID, t) {
		label := cat.Name
		if label == "" {
			label = cat.ID
		}
		items = append(items, label)
	}
	if len(items) == 0 {
		doc.PlainText("No selectable categories.")
		return doc.String()
	}
	doc.BulletList(items...)

	return doc.String()
}
