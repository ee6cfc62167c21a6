package service

import (
	"fmt"
	"slices"

	"github.com/popguide/catalog-server/internal/filtering"
)

// Option is a function that sets an option for service operations
type Option func(o any) error

type cursorOption interface {
	setCursor(cursor string) error
}

type limitOption interface {
	setLimit(limit int) error
}

type searchOption interface {
	setSearch(search string) error
}

type facetOption interface {
	addFacetValues(facet filtering.Facet, values []string) error
}

type vaultedOption interface {
	setVaultedMode(mode filtering.VaultedMode) error
}

type yearOption interface {
	setYear(year string) error
}

type seriesOption interface {
	setSeries(series string) error
}

// ListItemsOptions is the options for the ListItems operation
type ListItemsOptions struct {
	Cursor   string
	Limit    int
	Search   string
	Selected map[filtering.Facet][]string
	Vaulted  filtering.VaultedMode
	Year     string
}

func (o *ListItemsOptions) setCursor(cursor string) error {
	o.Cursor = cursor
	return nil
}

func (o *ListItemsOptions) setLimit(limit int) error {
	if limit > MaxPageSize {
		return fmt.Errorf("limit %d exceeds maximum %d", limit, MaxPageSize)
	}
	o.Limit = limit
	return nil
}

func (o *ListItemsOptions) setSearch(search string) error {
	o.Search = search
	return nil
}

func (o *ListItemsOptions) addFacetValues(facet filtering.Facet, values []string) error {
	if o.Selected == nil {
		o.Selected = map[filtering.Facet][]string{}
	}
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("empty %s value", facet)
		}
		if !slices.Contains(o.Selected[facet], v) {
			o.Selected[facet] = append(o.Selected[facet], v)
		}
	}
	return nil
}

func (o *ListItemsOptions) setVaultedMode(mode filtering.VaultedMode) error {
	o.Vaulted = mode
	return nil
}

func (o *ListItemsOptions) setYear(year string) error {
	o.Year = year
	return nil
}

// State folds the options into a filter state
func (o *ListItemsOptions) State() (*filtering.State, error) {
	actions := []filtering.Action{filtering.SetSearchTerm(o.Search)}
	for _, f := range filtering.Facets {
		for _, v := range o.Selected[f] {
			actions = append(actions, filtering.ToggleFacetValue(f, v))
		}
	}
	if o.Vaulted != "" {
		actions = append(actions, filtering.SetVaultedMode(o.Vaulted))
	}
	actions = append(actions, filtering.SetYear(o.Year))
	return filtering.Build(actions...)
}

// QuickSearchOptions is the options for the QuickSearch operation
type QuickSearchOptions struct {
	Limit int
}

func (o *QuickSearchOptions) setLimit(limit int) error {
	if limit > QuickSearchLimit {
		return fmt.Errorf("limit %d exceeds maximum %d", limit, QuickSearchLimit)
	}
	o.Limit = limit
	return nil
}

// StatsOptions is the options for the GetStats operation
type StatsOptions struct {
	Series string
	Limit  int
}

func (o *StatsOptions) setSeries(series string) error {
	o.Series = series
	return nil
}

func (o *StatsOptions) setLimit(limit int) error {
	o.Limit = limit
	return nil
}

// WithCursor sets the cursor for the ListItems operation
func WithCursor(cursor string) Option {
	return func(o any) error {
		if cursor == "" {
			return fmt.Errorf("invalid cursor: %s", cursor)
		}

		switch o := o.(type) {
		case cursorOption:
			return o.setCursor(cursor)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithLimit sets the limit for the ListItems, QuickSearch or GetStats operation
func WithLimit(limit int) Option {
	return func(o any) error {
		if limit <= 0 {
			return fmt.Errorf("invalid limit: %d", limit)
		}

		switch o := o.(type) {
		case limitOption:
			return o.setLimit(limit)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithSearch sets the free-text search term for the ListItems operation
func WithSearch(search string) Option {
	return func(o any) error {
		if search == "" {
			return fmt.Errorf("invalid search: %s", search)
		}

		switch o := o.(type) {
		case searchOption:
			return o.setSearch(search)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithFacetValues selects values of a multi-select facet for the ListItems operation
func WithFacetValues(facet string, values ...string) Option {
	return func(o any) error {
		f, err := filtering.ParseFacet(facet)
		if err != nil {
			return fmt.Errorf("%w: %s", err, facet)
		}

		switch o := o.(type) {
		case facetOption:
			return o.addFacetValues(f, values)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithVaultedMode sets the vaulted mode for the ListItems operation
func WithVaultedMode(mode string) Option {
	return func(o any) error {
		m, err := filtering.ParseVaultedMode(mode)
		if err != nil {
			return fmt.Errorf("%w: %s", err, mode)
		}

		switch o := o.(type) {
		case vaultedOption:
			return o.setVaultedMode(m)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithYear sets the creation year for the ListItems operation
func WithYear(year string) Option {
	return func(o any) error {
		if year == "" {
			return fmt.Errorf("invalid year: %s", year)
		}

		switch o := o.(type) {
		case yearOption:
			return o.setYear(year)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithSeries restricts the latest additions of the GetStats operation to one series
func WithSeries(series string) Option {
	return func(o any) error {
		if series == "" {
			return fmt.Errorf("invalid series: %s", series)
		}

		switch o := o.(type) {
		case seriesOption:
			return o.setSeries(series)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// Apply runs opts against target and wraps the first failure in ErrInvalidArgument
func Apply(target any, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	return nil
}
