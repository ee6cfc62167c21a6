package filtering

import (
	"slices"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/search"
)

// Predicate reports whether an item passes one filter row
type Predicate func(*catalog.Item) bool

// Compile returns the predicates a state imposes. Rows without a constraint
// are omitted, so the empty state compiles to no predicates.
func Compile(s *State, rules classify.Rules) []Predicate {
	var preds []Predicate

	if s.search != "" {
		preds = append(preds, search.FullMatcher(s.search))
	}

	for _, f := range Facets {
		sel := s.selected[f]
		if len(sel) == 0 {
			continue
		}
		switch f {
		case FacetCategory:
			preds = append(preds, fieldIn(sel, func(i *catalog.Item) string { return i.Category }))
		case FacetFandom:
			preds = append(preds, fieldIn(sel, func(i *catalog.Item) string { return i.Fandom }))
		case FacetGenre:
			preds = append(preds, fieldIn(sel, func(i *catalog.Item) string { return i.Genre }))
		case FacetEdition:
			preds = append(preds, editionIn(sel))
		case FacetStatus:
			preds = append(preds, statusIn(sel, rules))
		}
	}

	switch s.vaulted {
	case VaultedOnly:
		preds = append(preds, func(i *catalog.Item) bool { return i.IsVaulted })
	case VaultedAvailable:
		preds = append(preds, func(i *catalog.Item) bool { return !i.IsVaulted })
	}

	if s.year != "" {
		year := s.year
		preds = append(preds, func(i *catalog.Item) bool { return i.Year() == year })
	}

	return preds
}

// fieldIn matches when the field is present and equals a selected value
func fieldIn(sel []string, field func(*catalog.Item) string) Predicate {
	return func(i *catalog.Item) bool {
		v := field(i)
		return v != "" && slices.Contains(sel, v)
	}
}

// editionIn matches "New Releases" through the source tag and every other
// value against the literal edition
func editionIn(sel []string) Predicate {
	return func(i *catalog.Item) bool {
		for _, v := range sel {
			if v == facets.EditionNewReleases {
				if i.HasSource(catalog.SourceNewReleases) {
					return true
				}
				continue
			}
			if i.Edition != "" && i.Edition == v {
				return true
			}
		}
		return false
	}
}

func statusIn(sel []string, rules classify.Rules) Predicate {
	if slices.Contains(sel, string(classify.All)) {
		return func(*catalog.Item) bool { return true }
	}
	return func(i *catalog.Item) bool {
		labels := rules.Classify(i)
		for _, v := range sel {
			if labels.Matches(v) {
				return true
			}
		}
		return false
	}
}
