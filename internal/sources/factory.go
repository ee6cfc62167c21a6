package sources

import (
	"fmt"

	"github.com/popguide/catalog-server/internal/config"
)

// defaultSourceHandlerFactory is the default implementation of SourceHandlerFactory
type defaultSourceHandlerFactory struct {
	pools PoolOpener
}

var _ SourceHandlerFactory = (*defaultSourceHandlerFactory)(nil)

// FactoryOption configures the source handler factory
type FactoryOption func(*defaultSourceHandlerFactory)

// WithPoolOpener replaces how the database source connects
func WithPoolOpener(opener PoolOpener) FactoryOption {
	return func(f *defaultSourceHandlerFactory) {
		f.pools = opener
	}
}

// NewSourceHandlerFactory creates a new source handler factory
func NewSourceHandlerFactory(opts ...FactoryOption) SourceHandlerFactory {
	f := &defaultSourceHandlerFactory{pools: openPool}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateHandler creates a source handler for the given source type
func (f *defaultSourceHandlerFactory) CreateHandler(sourceType string) (SourceHandler, error) {
	switch sourceType {
	case config.SourceTypeFile:
		return NewFileSourceHandler(), nil
	case config.SourceTypeAPI:
		return NewAPISourceHandler(), nil
	case config.SourceTypeDatabase:
		return NewDatabaseSourceHandler(f.pools), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}
