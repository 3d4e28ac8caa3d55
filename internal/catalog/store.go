package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Store holds the fetched product list. Load runs once before the server
// starts accepting requests; everything after that is read-only, so no
// locking is needed.
type Store struct {
	products []Product
	byID     map[int64]Product
	loaded   bool
}

func NewStore() *Store {
	return &Store{byID: map[int64]Product{}}
}

// Load stores the fetched product list as-is. It is only called after a
// successful fetch and never fails.
func (s *Store) Load(products []Product) {
	s.products = products
	s.byID = make(map[int64]Product, len(products))
	for _, p := range products {
		s.byID[p.ID] = p
	}
	s.loaded = true
}

// Loaded reports whether a catalog has been fetched. False renders the
// persistent "catalog unavailable" state.
func (s *Store) Loaded() bool { return s.loaded }

// ByID looks a product up. The second return is false for unknown ids;
// callers treat that as a no-op, not an error.
func (s *Store) ByID(id int64) (Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Category is a filter option: the raw value plus a display label with a
// capitalized first letter.
type Category struct {
	Value string
	Label string
}

// Categories returns the distinct category values in first-seen order. The
// "all categories" pseudo-option is the empty value, added by the view layer.
func (s *Store) Categories() []Category {
	seen := map[string]struct{}{}
	var out []Category
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, Category{Value: p.Category, Label: capitalize(p.Category)})
	}
	return out
}

// Filter returns the products whose category equals the given category (empty
// matches all) and whose title contains the search text case-insensitively
// (empty matches all). Substring match, original catalog order, non-mutating.
func (s *Store) Filter(search, category string) []Product {
	search = strings.ToLower(search)
	var out []Product
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
