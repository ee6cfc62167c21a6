package facets

import (
	"sync"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
)

// Cache memoizes the facet catalog of the most recent snapshot. Entries are
// keyed on snapshot identity; a replaced snapshot always causes a rebuild and
// content is never compared.
type Cache struct {
	classifier *classify.Classifier

	mu    sync.Mutex
	snap  *catalog.Snapshot
	built *Catalog
}

// NewCache creates a cache that classifies with the given classifier
func NewCache(classifier *classify.Classifier) *Cache {
	return &Cache{classifier: classifier}
}

// For returns the facet catalog of snap, building it on first use
func (c *Cache) For(snap *catalog.Snapshot) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == snap && c.built != nil {
		return c.built
	}
	c.built = Build(snap, c.classifier.Now())
	c.snap = snap
	return c.built
}
