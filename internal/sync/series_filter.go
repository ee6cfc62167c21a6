package sync

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
)

// seriesFilter keeps or drops loaded records by glob patterns on their series.
// Exclude patterns take precedence over include patterns.
type seriesFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// newSeriesFilter compiles the configured patterns. A nil or empty
// configuration yields a nil filter that keeps every record.
func newSeriesFilter(cfg *config.SourceFilterConfig) (*seriesFilter, error) {
	if cfg == nil || (len(cfg.Include) == 0 && len(cfg.Exclude) == 0) {
		return nil, nil
	}

	f := &seriesFilter{}
	for _, pattern := range cfg.Include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range cfg.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// keep reports whether a record with the given series passes the filter
func (f *seriesFilter) keep(series string) bool {
	for _, g := range f.exclude {
		if g.Match(series) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(series) {
			return true
		}
	}
	return false
}

// apply returns the kept records in source order and how many were dropped
func (f *seriesFilter) apply(items []catalog.Item) ([]catalog.Item, int) {
	if f == nil {
		return items, 0
	}
	kept := make([]catalog.Item, 0, len(items))
	for i := range items {
		if f.keep(items[i].Series) {
			kept = append(kept, items[i])
		}
	}
	return kept, len(items) - len(kept)
}
