// Package catalog provides the item schema and the immutable catalog snapshot
// that every browsing component derives its state from.
package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Data source tags carried in Item.DataSources
const (
	// SourceNewReleases marks items imported from the new releases feed
	SourceNewReleases = "new-releases"

	// SourceComingSoon marks items imported from the coming soon feed
	SourceComingSoon = "coming-soon"

	// SourceFunkoEurope marks items imported from the Funko Europe storefront
	SourceFunkoEurope = "Funko Europe"
)

// Raw status labels stored on Item.RawStatus
const (
	RawStatusComingSoon = "Coming Soon"
	RawStatusPreOrder   = "Pre-Order"
	RawStatusSoldOut    = "Sold Out"
)

// Item is a single catalog record.
//
// ID, Name and CreatedAt are required; every other field is optional and an
// empty string, nil pointer or empty slice means "absent".
type Item struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Series    string    `json:"series" yaml:"series"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Number      string     `json:"number,omitempty" yaml:"number,omitempty"`
	Fandom      string     `json:"fandom,omitempty" yaml:"fandom,omitempty"`
	Genre       string     `json:"genre,omitempty" yaml:"genre,omitempty"`
	Edition     string     `json:"edition,omitempty" yaml:"edition,omitempty"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	RawStatus   string     `json:"status,omitempty" yaml:"status,omitempty"`
	IsVaulted   bool       `json:"is_vaulted,omitempty" yaml:"is_vaulted,omitempty"`
	IsExclusive bool       `json:"is_exclusive,omitempty" yaml:"is_exclusive,omitempty"`
	IsChase     bool       `json:"is_chase,omitempty" yaml:"is_chase,omitempty"`
	ExclusiveTo string     `json:"exclusive_to,omitempty" yaml:"exclusive_to,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	DataSources []string   `json:"data_sources,omitempty" yaml:"data_sources,omitempty"`

	// EstimatedValue is nil when the value is unknown. It is never negative.
	EstimatedValue *float64 `json:"estimated_value,omitempty" yaml:"estimated_value,omitempty"`

	UPCA                  string `json:"upc_a,omitempty" yaml:"upc_a,omitempty"`
	CountryOfRegistration string `json:"country_of_registration,omitempty" yaml:"country_of_registration,omitempty"`
	Brand                 string `json:"brand,omitempty" yaml:"brand,omitempty"`
	ModelNumber           string `json:"model_number,omitempty" yaml:"model_number,omitempty"`
	Size                  string `json:"size,omitempty" yaml:"size,omitempty"`
	Color                 string `json:"color,omitempty" yaml:"color,omitempty"`
	Weight                string `json:"weight,omitempty" yaml:"weight,omitempty"`
	ProductDimensions     string `json:"product_dimensions,omitempty" yaml:"product_dimensions,omitempty"`
	Variant               string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Description           string `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasSource reports whether the item carries the given data source tag
func (i *Item) HasSource(tag string) bool {
	return slices.Contains(i.DataSources, tag)
}

// Year returns the four digit creation year, or "" when CreatedAt is missing.
// Years are taken in UTC so faceting does not depend on the host time zone.
func (i *Item) Year() string {
	if i.CreatedAt.IsZero() {
		return ""
	}
	return strconv.Itoa(i.CreatedAt.UTC().Year())
}

// ValueLabel renders the estimated value for display, "unknown" when absent
func (i *Item) ValueLabel() string {
	if i.EstimatedValue == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*i.EstimatedValue, 'f', 2, 64)
}

// timestampLayouts are the formats accepted for created_at and release_date
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	time.DateOnly,
}

// ParseTimestamp parses a catalog timestamp. Values without a zone are UTC.
func ParseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// UnmarshalJSON decodes an item, accepting date-only and zone-less timestamps
// as exported by the catalog database. An unparseable created_at leaves the
// field zero so the record is rejected at the snapshot boundary.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		*plain
		CreatedAt   *string `json:"created_at"`
		ReleaseDate *string `json:"release_date"`
	}{plain: (*plain)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.CreatedAt != nil && *aux.CreatedAt != "" {
		if t, err := ParseTimestamp(*aux.CreatedAt); err == nil {
			i.CreatedAt = t
		}
	}
	if aux.ReleaseDate != nil && *aux.ReleaseDate != "" {
		if t, err := ParseTimestamp(*aux.ReleaseDate); err == nil {
			i.ReleaseDate = &t
		}
	}
	return nil
}
