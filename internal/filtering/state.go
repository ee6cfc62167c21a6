package filtering

import (
	"encoding/json"
	"slices"
)

// Facet names a multi-select facet
type Facet string

const (
	FacetCategory Facet = "category"
	FacetFandom   Facet = "fandom"
	FacetGenre    Facet = "genre"
	FacetEdition  Facet = "edition"
	FacetStatus   Facet = "status"
)

// Facets lists the multi-select facets in evaluation order
var Facets = []Facet{FacetCategory, FacetFandom, FacetGenre, FacetEdition, FacetStatus}

// ParseFacet converts a string into a multi-select facet
func ParseFacet(s string) (Facet, error) {
	f := Facet(s)
	if !slices.Contains(Facets, f) {
		return "", ErrUnknownFacet
	}
	return f, nil
}

// VaultedMode restricts results by vault state
type VaultedMode string

const (
	VaultedAll       VaultedMode = "All"
	VaultedOnly      VaultedMode = "Vaulted"
	VaultedAvailable VaultedMode = "Available"
)

// ParseVaultedMode converts a string into a vaulted mode
func ParseVaultedMode(s string) (VaultedMode, error) {
	switch m := VaultedMode(s); m {
	case VaultedAll, VaultedOnly, VaultedAvailable:
		return m, nil
	}
	return "", ErrInvalidVaultedMode
}

// State is an immutable filter description. The zero value is not valid;
// start from Empty.
type State struct {
	search   string
	selected map[Facet][]string
	vaulted  VaultedMode
	year     string
}

var empty = &State{vaulted: VaultedAll}

// Empty returns the shared all-empty state
func Empty() *State {
	return empty
}

// SearchTerm returns the free text search term
func (s *State) SearchTerm() string {
	return s.search
}

// Selected returns a copy of the values selected for a facet, in the order
// they were toggled on
func (s *State) Selected(f Facet) []string {
	return slices.Clone(s.selected[f])
}

// IsSelected reports whether value is selected for facet f
func (s *State) IsSelected(f Facet, value string) bool {
	return slices.Contains(s.selected[f], value)
}

// VaultedMode returns the vaulted mode
func (s *State) VaultedMode() VaultedMode {
	return s.vaulted
}

// Year returns the selected creation year, "" when unconstrained
func (s *State) Year() string {
	return s.year
}

// IsEmpty reports whether the state constrains nothing
func (s *State) IsEmpty() bool {
	return s.search == "" && len(s.selected) == 0 && s.vaulted == VaultedAll && s.year == ""
}

func (s *State) clone() *State {
	next := *s
	next.selected = make(map[Facet][]string, len(s.selected))
	for f, v := range s.selected {
		next.selected[f] = v
	}
	return &next
}

func (s *State) withSearch(term string) *State {
	if term == s.search {
		return s
	}
	next := s.clone()
	next.search = term
	return next
}

func (s *State) toggle(f Facet, value string) *State {
	next := s.clone()
	cur := s.selected[f]
	if i := slices.Index(cur, value); i >= 0 {
		vals := slices.Delete(slices.Clone(cur), i, i+1)
		if len(vals) == 0 {
			delete(next.selected, f)
		} else {
			next.selected[f] = vals
		}
		return next
	}
	next.selected[f] = append(slices.Clone(cur), value)
	return next
}

func (s *State) withVaulted(m VaultedMode) *State {
	if m == s.vaulted {
		return s
	}
	next := s.clone()
	next.vaulted = m
	return next
}

func (s *State) withYear(year string) *State {
	if year == s.year {
		return s
	}
	next := s.clone()
	next.year = year
	return next
}

// stateJSON is the wire form of a State
type stateJSON struct {
	SearchTerm  string             `json:"search_term"`
	Selected    map[Facet][]string `json:"selected"`
	VaultedMode VaultedMode        `json:"vaulted_mode"`
	Year        string             `json:"year"`
}

// MarshalJSON renders the state with every facet present
func (s *State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		SearchTerm:  s.search,
		Selected:    make(map[Facet][]string, len(Facets)),
		VaultedMode: s.vaulted,
		Year:        s.year,
	}
	for _, f := range Facets {
		vals := s.Selected(f)
		if vals == nil {
			vals = []string{}
		}
		out.Selected[f] = vals
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a state from its wire form through the reducer, so a
// decoded state satisfies the same invariants as one built by actions
func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	actions := []Action{SetSearchTerm(in.SearchTerm), SetYear(in.Year)}
	if in.VaultedMode != "" {
		actions = append(actions, SetVaultedMode(in.VaultedMode))
	}
	for _, f := range Facets {
		// toggling twice would cancel out, so a repeated value counts once
		seen := make(map[string]struct{}, len(in.Selected[f]))
		for _, v := range in.Selected[f] {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			actions = append(actions, ToggleFacetValue(f, v))
		}
	}
	built, err := Build(actions...)
	if err != nil {
		return err
	}
	*s = *built
	return nil
}
