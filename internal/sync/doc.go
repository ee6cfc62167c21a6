// Package sync decides when the catalog must be reloaded and performs a
// single load from the configured source into the snapshot store.
//
// # Core Interfaces
//
//   - Manager: decides whether a load is needed and performs it
//   - DataChangeDetector: compares the source content hash with the hash of
//     the last successful load
//
// # Sync Decision Making
//
// ShouldSync returns a decision and a reason code:
//
//   - ReasonCatalogNotLoaded: no load has succeeded yet, or the last one failed
//   - ReasonSourceDataChanged: the source hash differs from the loaded hash
//   - ReasonErrorCheckingChanges: the hash could not be computed, a load is
//     attempted anyway so the failure is recorded
//   - ReasonUpToDate: nothing to do
//
// # Errors
//
// PerformSync returns a structured *Error carrying the failing stage in
// Reason. Only fetch failures caused by transient conditions are retryable;
// the sync/coordinator package uses Retryable to drive its backoff.
//
// Scheduling and retries live in the sync/coordinator subpackage.
package sync
