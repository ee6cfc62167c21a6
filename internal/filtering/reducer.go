package filtering

import "errors"

var (
	// ErrUnknownFacet is returned when an action names a facet that cannot be toggled
	ErrUnknownFacet = errors.New("unknown facet")

	// ErrInvalidVaultedMode is returned for a vaulted mode other than All, Vaulted or Available
	ErrInvalidVaultedMode = errors.New("invalid vaulted mode")

	// ErrEmptyValue is returned when toggling an empty facet value
	ErrEmptyValue = errors.New("facet value must not be empty")
)

// ActionKind identifies a filter action
type ActionKind string

const (
	ActionSetSearchTerm    ActionKind = "set_search_term"
	ActionToggleFacetValue ActionKind = "toggle_facet_value"
	ActionSetVaultedMode   ActionKind = "set_vaulted_mode"
	ActionSetYear          ActionKind = "set_year"
	ActionClear            ActionKind = "clear"
)

// Action is a single user filter action
type Action struct {
	Kind  ActionKind
	Facet Facet
	Value string
}

// SetSearchTerm replaces the search term
func SetSearchTerm(term string) Action {
	return Action{Kind: ActionSetSearchTerm, Value: term}
}

// ToggleFacetValue flips membership of value in a facet's selection
func ToggleFacetValue(f Facet, value string) Action {
	return Action{Kind: ActionToggleFacetValue, Facet: f, Value: value}
}

// SetVaultedMode replaces the vaulted mode
func SetVaultedMode(m VaultedMode) Action {
	return Action{Kind: ActionSetVaultedMode, Value: string(m)}
}

// SetYear replaces the year constraint; "" clears it
func SetYear(year string) Action {
	return Action{Kind: ActionSetYear, Value: year}
}

// Clear resets every constraint
func Clear() Action {
	return Action{Kind: ActionClear}
}

// Reduce applies an action and returns the resulting state. The input is
// never modified. When the action changes nothing the same pointer is returned.
// On error the input state is returned unchanged.
func Reduce(s *State, a Action) (*State, error) {
	switch a.Kind {
	case ActionSetSearchTerm:
		return s.withSearch(a.Value), nil
	case ActionToggleFacetValue:
		if _, err := ParseFacet(string(a.Facet)); err != nil {
			return s, err
		}
		if a.Value == "" {
			return s, ErrEmptyValue
		}
		return s.toggle(a.Facet, a.Value), nil
	case ActionSetVaultedMode:
		m, err := ParseVaultedMode(a.Value)
		if err != nil {
			return s, err
		}
		return s.withVaulted(m), nil
	case ActionSetYear:
		return s.withYear(a.Value), nil
	case ActionClear:
		if s.IsEmpty() {
			return s, nil
		}
		return Empty(), nil
	}
	return s, errors.New("unknown action " + string(a.Kind))
}

// Build folds actions over the empty state
func Build(actions ...Action) (*State, error) {
	s := Empty()
	for _, a := range actions {
		var err error
		if s, err = Reduce(s, a); err != nil {
			return nil, err
		}
	}
	return s, nil
}
