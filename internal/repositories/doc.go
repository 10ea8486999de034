// Package repositories implements SQLite persistence for the local catalog cache.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// Soft deletes via deleted_at timestamps keep removed catalog entries out of queries by default.
//
// Key Implementations:
//   - [SongRepository] : Catalog cache rows with remote-id lookups and a favorite flag
//   - [SongCacheAdapter] : Upsert layer used by sync tasks, deduplicating on remote id
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
