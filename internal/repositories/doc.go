// Package repositories implements SQLite persistence for the fetch run history.
//
// Key Implementations:
//   - [FetchRunRepository] : one row per completed fetch, ordered by sequence
//
// Sequence numbers give runs a stable, human-readable number (run #3) independent of UUIDs and
// timestamps. [NextSequence] atomically increments per-table counters in dedicated sequence tables.
package repositories
