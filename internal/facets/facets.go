// Package facets derives selectable facet options and their counts from a
// catalog snapshot.
//
// Counts always describe the whole snapshot, never a filtered subset, so an
// option's count does not move when filters on other facets change.
package facets

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
)

// Key names a facet
type Key string

const (
	Character Key = "character"
	Series    Key = "series"
	Status    Key = "status"
	Category  Key = "category"
	Fandom    Key = "fandom"
	Genre     Key = "genre"
	Edition   Key = "edition"
	Year      Key = "year"
	Vaulted   Key = "vaulted"
)

// Keys lists every facet in display order
var Keys = []Key{Status, Category, Fandom, Genre, Edition, Character, Series, Year, Vaulted}

// ParseKey converts a string into a known facet key
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	return k, slices.Contains(Keys, k)
}

// EditionNewReleases is counted and matched through the new releases source
// tag rather than the literal edition field
const EditionNewReleases = "New Releases"

// Option is a facet value with its whole-catalog count
type Option struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Catalog holds the options of every facet for one snapshot
type Catalog struct {
	generation uint64
	options    map[Key][]Option
}

// Build derives all facet options and counts from a snapshot. Status counts
// use rules, so they reflect the evaluation time rules was created at.
func Build(snap *catalog.Snapshot, rules classify.Rules) *Catalog {
	items := snap.Items()

	names := map[string]int{}
	series := map[string]int{}
	years := map[string]int{}
	categories := map[string]int{}
	fandoms := map[string]int{}
	genres := map[string]int{}
	editions := map[string]int{}
	statuses := map[string]int{}
	newReleaseTagged := 0
	vaulted := 0

	for _, item := range items {
		if item.Name != "" {
			names[item.Name]++
		}
		if item.Series != "" {
			series[item.Series]++
		}
		if y := item.Year(); y != "" {
			years[y]++
		}
		categories[item.Category]++
		fandoms[item.Fandom]++
		genres[item.Genre]++
		editions[item.Edition]++
		if item.HasSource(catalog.SourceNewReleases) {
			newReleaseTagged++
		}
		if item.IsVaulted {
			vaulted++
		}
		for _, l := range rules.Classify(item).Labels() {
			statuses[string(l)]++
		}
	}

	statuses[string(classify.All)] = len(items)
	editionCount := func(v string) int {
		if v == EditionNewReleases {
			return newReleaseTagged
		}
		return editions[v]
	}

	return &Catalog{
		generation: snap.Generation(),
		options: map[Key][]Option{
			Character: dynamic(names),
			Series:    dynamic(series),
			Year:      yearOptions(years),
			Status:    static(StatusValues, lookup(statuses)),
			Category:  static(CategoryValues, lookup(categories)),
			Fandom:    static(FandomValues, lookup(fandoms)),
			Genre:     static(GenreValues, lookup(genres)),
			Edition:   static(EditionValues, editionCount),
			Vaulted: {
				{Value: VaultedValues[0], Count: len(items)},
				{Value: VaultedValues[1], Count: vaulted},
				{Value: VaultedValues[2], Count: len(items) - vaulted},
			},
		},
	}
}

// Generation returns the generation of the snapshot the catalog was built from
func (c *Catalog) Generation() uint64 {
	return c.generation
}

// Options returns the options of one facet. The slice must not be modified.
func (c *Catalog) Options(key Key) []Option {
	return c.options[key]
}

// All returns every facet's options keyed by facet
func (c *Catalog) All() map[Key][]Option {
	out := make(map[Key][]Option, len(c.options))
	for k, v := range c.options {
		out[k] = v
	}
	return out
}

// Count returns the count of a single option, 0 when unknown
func (c *Catalog) Count(key Key, value string) int {
	for _, opt := range c.options[key] {
		if opt.Value == value {
			return opt.Count
		}
	}
	return 0
}

// Search returns the options of key whose value contains q, ignoring case.
// Counts are unchanged and an empty q returns every option.
func (c *Catalog) Search(key Key, q string) []Option {
	opts := c.options[key]
	if q == "" {
		return opts
	}
	q = strings.ToLower(q)
	out := make([]Option, 0)
	for _, opt := range opts {
		if strings.Contains(strings.ToLower(opt.Value), q) {
			out = append(out, opt)
		}
	}
	return out
}

func lookup(counts map[string]int) func(string) int {
	return func(v string) int { return counts[v] }
}

func static(values []string, count func(string) int) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Count: count(v)}
	}
	return out
}

// dynamic returns distinct values sorted by byte order
func dynamic(counts map[string]int) []Option {
	out := make([]Option, 0, len(counts))
	for v, n := range counts {
		out = append(out, Option{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// yearOptions returns years newest first
func yearOptions(counts map[string]int) []Option {
	out := dynamic(counts)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Value)
		b, _ := strconv.Atoi(out[j].Value)
		return a > b
	})
	return out
}
