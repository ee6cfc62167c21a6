package facets

import (
	"sort"

	"github.com/popguide/catalog-server/internal/catalog"
)

const (
	// TopSeriesLimit is how many series the distribution reports
	TopSeriesLimit = 6

	// LatestLimit is the size of the latest additions strip
	LatestLimit = 24
)

// Stats summarizes a snapshot
type Stats struct {
	ItemCount       int      `json:"item_count"`
	VaultedCount    int      `json:"vaulted_count"`
	RareCount       int      `json:"rare_count"`
	ValuedCount     int      `json:"valued_count"`
	KnownValueTotal float64  `json:"known_value_total"`
	TopSeries       []Option `json:"top_series"`
}

// ComputeStats counts vaulted and rare items, totals the known estimated
// values and ranks series by item count. Rare means chase or exclusive.
func ComputeStats(snap *catalog.Snapshot) Stats {
	st := Stats{ItemCount: snap.Len()}
	series := map[string]int{}

	for _, item := range snap.Items() {
		if item.IsVaulted {
			st.VaultedCount++
		}
		if item.IsChase || item.IsExclusive {
			st.RareCount++
		}
		if item.EstimatedValue != nil {
			st.ValuedCount++
			st.KnownValueTotal += *item.EstimatedValue
		}
		if item.Series != "" {
			series[item.Series]++
		}
	}

	top := dynamic(series)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > TopSeriesLimit {
		top = top[:TopSeriesLimit]
	}
	st.TopSeries = top
	return st
}

// Latest returns up to limit items ordered by creation time, newest first,
// optionally restricted to one series. Ties keep catalog order.
func Latest(snap *catalog.Snapshot, series string, limit int) []*catalog.Item {
	out := make([]*catalog.Item, 0)
	for _, item := range snap.Items() {
		if series == "" || item.Series == series {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
