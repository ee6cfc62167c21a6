// Package search implements the two substring matching strategies used by the
// catalog: FullMatch for browsing and QuickMatch for fast item lookup.
package search

import (
	"strings"

	"github.com/popguide/catalog-server/internal/catalog"
)

// QuickMinLength is the shortest normalized query QuickMatch accepts
const QuickMinLength = 2

// fullFields lists the fields FullMatch searches, in order
var fullFields = []func(*catalog.Item) string{
	func(i *catalog.Item) string { return i.Name },
	func(i *catalog.Item) string { return i.Series },
	func(i *catalog.Item) string { return i.Number },
	func(i *catalog.Item) string { return i.Fandom },
	func(i *catalog.Item) string { return i.UPCA },
	func(i *catalog.Item) string { return i.CountryOfRegistration },
	func(i *catalog.Item) string { return i.Brand },
	func(i *catalog.Item) string { return i.ModelNumber },
	func(i *catalog.Item) string { return i.Size },
	func(i *catalog.Item) string { return i.Color },
	func(i *catalog.Item) string { return i.Weight },
	func(i *catalog.Item) string { return i.ProductDimensions },
	func(i *catalog.Item) string { return i.Variant },
	func(i *catalog.Item) string { return i.Description },
}

// FullMatch reports whether the lower-cased query is a substring of any
// present text field of the item. Punctuation in the query is kept.
// An empty query matches every item.
func FullMatch(query string, item *catalog.Item) bool {
	if query == "" {
		return true
	}
	return FullMatcher(query)(item)
}

// FullMatcher returns a FullMatch predicate with the query lower-cased once
func FullMatcher(query string) func(*catalog.Item) bool {
	if query == "" {
		return func(*catalog.Item) bool { return true }
	}
	q := strings.ToLower(query)
	return func(item *catalog.Item) bool {
		for _, field := range fullFields {
			v := field(item)
			if v != "" && strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}
}

// Normalize lower-cases s and strips every character that is not an ASCII
// letter or digit
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// QuickMatch compares normalized forms of the query and the item's name,
// series and number. Queries that normalize to fewer than two characters
// match nothing.
func QuickMatch(query string, item *catalog.Item) bool {
	return QuickMatcher(query)(item)
}

// QuickMatcher returns a QuickMatch predicate with the query normalized once
func QuickMatcher(query string) func(*catalog.Item) bool {
	q := Normalize(query)
	if len(q) < QuickMinLength {
		return func(*catalog.Item) bool { return false }
	}
	return func(item *catalog.Item) bool {
		return strings.Contains(Normalize(item.Name), q) ||
			strings.Contains(Normalize(item.Series), q) ||
			strings.Contains(Normalize(item.Number), q)
	}
}

// Quick returns up to limit items that QuickMatch the query, in catalog order.
// A non-positive limit means no limit.
func Quick(query string, items []*catalog.Item, limit int) []*catalog.Item {
	match := QuickMatcher(query)
	out := make([]*catalog.Item, 0)
	for _, item := range items {
		if !match(item) {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
