package catalog

import (
	"log/slog"
	"sync/atomic"
)

// generations hands out snapshot identities; 0 is reserved for the empty snapshot
var generations atomic.Uint64

var empty = &Snapshot{}

// Snapshot is an immutable, loaded catalog.
//
// A snapshot is never mutated after construction. Its identity (pointer and
// Generation) is what downstream caches key on, so two snapshots with equal
// content but different generations are treated as different catalogs.
type Snapshot struct {
	generation uint64
	items      []*Item
	hash       string
	rejected   int
}

// Empty returns the shared empty snapshot used before the first load
func Empty() *Snapshot {
	return empty
}

// NewSnapshot validates records and returns a snapshot holding the accepted ones
// in input order. Records without an id, name or creation time are dropped and
// counted; a negative estimated value is cleared to unknown. An empty series is
// accepted: it only drops the item from the series facet.
func NewSnapshot(records []Item, hash string) *Snapshot {
	items := make([]*Item, 0, len(records))
	rejected := 0

	for i := range records {
		rec := records[i]
		if rec.ID == "" || rec.Name == "" || rec.CreatedAt.IsZero() {
			rejected++
			continue
		}
		if rec.EstimatedValue != nil && *rec.EstimatedValue < 0 {
			slog.Warn("Clearing negative estimated value", "item_id", rec.ID, "value", *rec.EstimatedValue)
			rec.EstimatedValue = nil
		}
		items = append(items, &rec)
	}

	if rejected > 0 {
		slog.Warn("Rejected catalog records missing required fields",
			"rejected", rejected,
			"accepted", len(items))
	}

	return &Snapshot{
		generation: generations.Add(1),
		items:      items,
		hash:       hash,
		rejected:   rejected,
	}
}

// Generation returns the snapshot identity
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Items returns the accepted items in catalog order. Callers must not modify
// the returned slice or the items it points to.
func (s *Snapshot) Items() []*Item {
	return s.items
}

// Len returns the number of accepted items
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Hash returns the content hash the snapshot was built from
func (s *Snapshot) Hash() string {
	return s.hash
}

// Rejected returns how many records failed boundary validation
func (s *Snapshot) Rejected() int {
	return s.rejected
}

// Lookup returns the item with the given id
func (s *Snapshot) Lookup(id string) (*Item, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}
