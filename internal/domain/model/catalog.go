package model

import (
	"fmt"
	"strings"

	"training-registration/internal/domain"
)

// Category groups catalog entries by the kind of offer.
type Category string

const (
	CategoryIndividual Category = "individual"
	CategoryPack       Category = "pack"
	CategoryCycle      Category = "cycle"
)

var categoryAliases = map[string]Category{
	"individual":   CategoryIndividual,
	"individuelle": CategoryIndividual,
	"pack":         CategoryPack,
	"cycle":        CategoryCycle,
}

// ParseCategory accepts canonical names and the French labels used by the form.
// An empty string clears the selection.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	c, ok := categoryAliases[s]
	if !ok {
		return "", fmt.Errorf("category %q: %w", s, domain.ErrInvalidArgument)
	}
	return c, nil
}

type CatalogEntry struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Price int64  `json:"price" yaml:"price"`
}

// Catalog is the static price table. It is immutable once built.
type Catalog struct {
	Categories map[Category][]CatalogEntry `json:"categories"`
	Interests  []string                    `json:"interests"`
}

// NewCatalog validates the table: known categories, unique non-empty ids per
// category and non-negative prices.
func NewCatalog(categories map[Category][]CatalogEntry, interests []string) (*Catalog, error) {
	out := &Catalog{Categories: make(map[Category][]CatalogEntry, len(categories))}
	for cat, entries := range categories {
		if _, err := ParseCategory(string(cat)); err != nil || cat == "" {
			return nil, fmt.Errorf("catalog category %q: %w", cat, domain.ErrInvalidArgument)
		}
		seen := make(map[string]struct{}, len(entries))
		list := make([]CatalogEntry, 0, len(entries))
		for _, e := range entries {
			e.ID = strings.TrimSpace(e.ID)
			if e.ID == "" || e.Price < 0 {
				return nil, fmt.Errorf("catalog entry %q in %s: %w", e.ID, cat, domain.ErrInvalidArgument)
			}
			if _, dup := seen[e.ID]; dup {
				return nil, fmt.Errorf("duplicate catalog entry %q in %s: %w", e.ID, cat, domain.ErrAlreadyExists)
			}
			seen[e.ID] = struct{}{}
			list = append(list, e)
		}
		out.Categories[cat] = list
	}
	out.Interests = normalizeSet(interests)
	return out, nil
}

// Lookup finds the entry for (category, id).
func (c *Catalog) Lookup(cat Category, id string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	for _, e := range c.Categories[cat] {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Price returns the catalog price, or 0 when the pair does not match.
func (c *Catalog) Price(cat Category, id string) int64 {
	e, ok := c.Lookup(cat, id)
	if !ok {
		return 0
	}
	return e.Price
}

// AllowsInterest reports whether s is one of the selectable interests.
// An empty interest list accepts anything.
func (c *Catalog) AllowsInterest(s string) bool {
	if c == nil || len(c.Interests) == 0 {
		return true
	}
	for _, i := range c.Interests {
		if i == s {
			return true
		}
	}
	return false
}

func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
