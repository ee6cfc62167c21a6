// Package sources provides interfaces and implementations for retrieving
// catalog records from external data sources.
//
// The package defines the SourceHandler interface which abstracts the
// process of validating a source configuration and fetching the raw item
// records it points at. Every handler returns a FetchResult carrying the
// decoded items and a SHA256 content hash; the hash is what the sync layer
// compares to decide whether a refetch changed anything.
//
// Current implementations:
//   - fileSourceHandler: reads a local .json, .yaml or .yml document holding
//     an array of item records
//   - apiSourceHandler: pages a PostgREST-style collection endpoint with
//     limit/offset, optionally authenticated with an apikey header and
//     throttled by a token bucket
//   - databaseSourceHandler: selects the catalog columns from a PostgreSQL
//     table through a pgx connection pool
//
// JSON payloads are validated against the embedded item schema before
// decoding. Records missing required fields are not rejected here; that
// happens when the snapshot is built, so one bad record never discards a
// whole catalog.
package sources
