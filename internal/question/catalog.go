package question

import (
	"fmt"

	"github.com/gokatarajesh/trivia-night/internal/question/datasets"
)

// Catalog is the static list of selectable categories with their kinds resolved.
type Catalog struct {
	list []Category
	byID map[string]Category
}

// NewCatalog resolves each record's kind once. Unknown ids are rejected.
func NewCatalog(records []datasets.CategoryRecord) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Category, len(records))}
	for _, r := range records {
		kind := KindForID(r.ID)
		if kind == KindUnknown {
			return nil, fmt.Errorf("category %q: no provider for id", r.ID)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("category %q: duplicate id", r.ID)
		}
		cat := Category{
			ID:       r.ID,
			Name:     r.Name,
			Emoji:    r.Emoji,
			Kind:     kind,
			Source:   r.Source,
			SourceID: r.SourceID,
			Decade:   r.Decade,
			Variant:  r.Variant,
		}
		c.list = append(c.list, cat)
		c.byID[cat.ID] = cat
	}
	return c, nil
}

// All returns the catalog in display order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Catalog) Lookup(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Resolve maps selected ids to categories, keeping selection order and dropping repeats.
func (c *Catalog) Resolve(ids []string) ([]Category, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		cat, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", id)
		}
		seen[id] = true
		out = append(out, cat)
	}
	return out, nil
}
