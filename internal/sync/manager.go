package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/httpclient"
	"github.com/popguide/catalog-server/internal/sources"
	"github.com/popguide/catalog-server/internal/status"
)

// Result contains the result of a successful sync operation
type Result struct {
	Hash       string
	ItemCount  int
	Rejected   int
	// Filtered counts records dropped by the source series filter
	Filtered   int
	Generation uint64
	// Changed is false when the source content matched the active snapshot
	Changed bool
}

// Sync decision reasons
const (
	ReasonCatalogNotLoaded     = "catalog-not-loaded"
	ReasonSourceDataChanged    = "source-data-changed"
	ReasonErrorCheckingChanges = "error-checking-data-changes"
	ReasonUpToDate             = "up-to-date"
)

// Failure reasons carried by Error
const (
	ReasonHandlerCreationFailed = "HandlerCreationFailed"
	ReasonValidationFailed      = "ValidationFailed"
	ReasonFetchFailed           = "FetchFailed"
)

// Error represents a failed sync with the stage that failed
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed
func (e *Error) Retryable() bool {
	if e.Reason != ReasonFetchFailed {
		return false
	}
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	return httpclient.IsRetryable(e.Err)
}

// Manager manages catalog loads from the configured source
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/popguide/catalog-server/internal/sync Manager
type Manager interface {
	// ShouldSync determines if a load is needed given the current load status
	ShouldSync(ctx context.Context, source *config.SourceConfig, loadStatus status.LoadStatus) (bool, string)

	// PerformSync fetches the source and installs the result in the store
	PerformSync(ctx context.Context, source *config.SourceConfig) (*Result, *Error)
}

// DataChangeDetector detects changes in source data
type DataChangeDetector interface {
	// IsDataChanged compares the source hash with the last loaded hash
	IsDataChanged(ctx context.Context, source *config.SourceConfig, loadStatus status.LoadStatus) (bool, error)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	sourceHandlerFactory sources.SourceHandlerFactory
	store                *catalog.Store
	dataChangeDetector   DataChangeDetector
}

// NewDefaultSyncManager creates a manager loading into store
func NewDefaultSyncManager(sourceHandlerFactory sources.SourceHandlerFactory, store *catalog.Store) Manager {
	return &defaultSyncManager{
		sourceHandlerFactory: sourceHandlerFactory,
		store:                store,
		dataChangeDetector:   &DefaultDataChangeDetector{sourceHandlerFactory: sourceHandlerFactory},
	}
}

// ShouldSync determines if a load is needed.
// A catalog that is not in the loaded phase always needs one.
func (s *defaultSyncManager) ShouldSync(
	ctx context.Context, source *config.SourceConfig, loadStatus status.LoadStatus,
) (bool, string) {
	if loadStatus.Phase != status.LoadPhaseLoaded {
		return true, ReasonCatalogNotLoaded
	}

	changed, err := s.dataChangeDetector.IsDataChanged(ctx, source, loadStatus)
	if err != nil {
		slog.Warn("Failed to determine if catalog data has changed", "error", err)
		return true, ReasonErrorCheckingChanges
	}
	if changed {
		return true, ReasonSourceDataChanged
	}
	return false, ReasonUpToDate
}

// PerformSync fetches the catalog and replaces the store snapshot.
// It does not record failures in the store; the caller decides when a
// failure is final.
func (s *defaultSyncManager) PerformSync(ctx context.Context, source *config.SourceConfig) (*Result, *Error) {
	handler, err := s.sourceHandlerFactory.CreateHandler(source.GetType())
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Failed to create source handler: %v", err),
			Reason:  ReasonHandlerCreationFailed,
		}
	}

	if err := handler.Validate(source); err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Source validation failed: %v", err),
			Reason:  ReasonValidationFailed,
		}
	}

	filter, err := newSeriesFilter(source.Filter)
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Source filter invalid: %v", err),
			Reason:  ReasonValidationFailed,
		}
	}

	fetchResult, err := handler.FetchCatalog(ctx, source)
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Fetch failed: %v", err),
			Reason:  ReasonFetchFailed,
		}
	}

	slog.Info("Catalog fetched from source",
		"source_type", source.GetType(),
		"item_count", fetchResult.ItemCount,
		"format", fetchResult.Format,
		"hash", hashPreview(fetchResult.Hash))

	items, filtered := filter.apply(fetchResult.Items)
	if filtered > 0 {
		slog.Info("Dropped records excluded by the source filter",
			"filtered", filtered,
			"kept", len(items))
	}

	snap, changed := s.store.Replace(items, fetchResult.Hash)

	return &Result{
		Hash:       fetchResult.Hash,
		ItemCount:  snap.Len(),
		Rejected:   snap.Rejected(),
		Filtered:   filtered,
		Generation: snap.Generation(),
		Changed:    changed,
	}, nil
}

func hashPreview(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
