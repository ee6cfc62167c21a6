// Package filtering composes catalog predicates into one filtered result.
//
// # State
//
// A filter is described by an immutable State value: a free text search term,
// a multi-select set for each of the category, fandom, genre, edition and
// status facets, a vaulted mode and an optional creation year. States are
// never mutated; every user action produces a new State through Reduce, and an
// action that changes nothing returns the same pointer. Callers rely on that
// pointer identity to decide whether derived results must be recomputed.
//
// # Composition
//
// The final predicate is the logical AND of one predicate per facet. Inside a
// multi-select facet values are OR-ed: an item matches when its field equals
// any selected value. An empty selection, an empty search term, the "All"
// vaulted mode and an empty year contribute no constraint.
//
// Two facets have special rules:
//
//   - edition: the "New Releases" value matches items tagged with the
//     new-releases data source instead of the literal edition field
//   - status: the item's derived label set (see package classify) must
//     intersect the selection; "All" matches every item and unknown values
//     match nothing
//
// # Narrowing
//
// Constraining a facet that was previously empty can only shrink the result.
// Adding a value to a facet that already has a selection widens it, since
// values within a facet are alternatives.
//
// # Usage Example
//
//	engine := NewDefaultEngine(classify.New())
//	state, err := Build(
//		SetSearchTerm("groot"),
//		ToggleFacetValue(FacetCategory, "Pop!"),
//		SetVaultedMode(VaultedAvailable),
//	)
//	if err != nil {
//		return err
//	}
//	items := engine.Apply(snapshot, state)
//
// Filtering neither logs nor errors: an empty result is a valid outcome.
package filtering
