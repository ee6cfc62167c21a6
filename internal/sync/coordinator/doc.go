// Package coordinator runs the background catalog refresh loop.
//
// It sits on top of sync.Manager and handles:
//
//   - an initial load on startup
//   - periodic reloads at the configured sync interval
//   - immediate reloads when a watched catalog file changes
//   - retries with exponential backoff for transient fetch failures
//   - recording final failures in the catalog store
//   - graceful shutdown
//
// # Usage Example
//
//	store := catalog.NewStore()
//	manager := sync.NewDefaultSyncManager(sources.NewSourceHandlerFactory(), store)
//	coord := coordinator.New(manager, store, cfg,
//	    coordinator.WithCatalogMetrics(metrics))
//
//	go func() {
//	    if err := coord.Start(ctx); err != nil {
//	        slog.Error("Coordinator failed", "error", err)
//	    }
//	}()
//	defer coord.Stop()
//
// A failed load never clears the active snapshot. Until the first load
// succeeds the store serves the empty snapshot and reports the failed phase.
package coordinator
