package filtering

import (
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
)

// Engine filters a snapshot by a state
type Engine interface {
	// Apply returns the items of snap that satisfy state, in catalog order.
	// The result for the empty state is snap.Items() itself.
	Apply(snap *catalog.Snapshot, state *State) []*catalog.Item

	// ApplyAt is Apply with status rules evaluated at a fixed time
	ApplyAt(snap *catalog.Snapshot, state *State, rules classify.Rules) []*catalog.Item
}

// defaultEngine evaluates compiled predicates with a linear scan
type defaultEngine struct {
	classifier *classify.Classifier
}

// NewDefaultEngine creates an engine that classifies with classifier
func NewDefaultEngine(classifier *classify.Classifier) Engine {
	if classifier == nil {
		classifier = classify.New()
	}
	return &defaultEngine{classifier: classifier}
}

// Apply implements Engine
func (e *defaultEngine) Apply(snap *catalog.Snapshot, state *State) []*catalog.Item {
	return e.ApplyAt(snap, state, e.classifier.Now())
}

// ApplyAt implements Engine
func (*defaultEngine) ApplyAt(snap *catalog.Snapshot, state *State, rules classify.Rules) []*catalog.Item {
	items := snap.Items()
	preds := Compile(state, rules)
	if len(preds) == 0 {
		return items
	}

	out := make([]*catalog.Item, 0)
	for _, item := range items {
		if matchesAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll(item *catalog.Item, preds []Predicate) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}
