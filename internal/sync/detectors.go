package sync

import (
	"context"

	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/sources"
	"github.com/popguide/catalog-server/internal/status"
)

// DefaultDataChangeDetector implements DataChangeDetector
type DefaultDataChangeDetector struct {
	sourceHandlerFactory sources.SourceHandlerFactory
}

// IsDataChanged checks if source data has changed by comparing hashes.
// Without a previous hash the data is considered changed.
func (d *DefaultDataChangeDetector) IsDataChanged(
	ctx context.Context, source *config.SourceConfig, loadStatus status.LoadStatus,
) (bool, error) {
	if loadStatus.LastLoadHash == "" {
		return true, nil
	}

	handler, err := d.sourceHandlerFactory.CreateHandler(source.GetType())
	if err != nil {
		return true, err
	}

	currentHash, err := handler.CurrentHash(ctx, source)
	if err != nil {
		return true, err
	}

	return currentHash != loadStatus.LastLoadHash, nil
}
