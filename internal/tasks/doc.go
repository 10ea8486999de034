// Package tasks orchestrates multi-step library operations with real-time progress reporting.
//
// # Core Operations
//
// The [LibraryEngine] exposes five operations:
//
//  1. [LibraryEngine.Sync] : Pull the catalog and favorites into the local cache
//     - Fetches the full remote catalog
//     - Upserts each song through the [SongCacher]
//     - Reconciles cached favorite flags with the server-side set
//
//  2. [LibraryEngine.ToggleFavorite] : Add or remove a favorite
//     - Applies the mutation, then fetches the authoritative list
//     - On mutation failure the re-fetched list lets callers roll back
//       optimistic state instead of guessing
//
//  3. [LibraryEngine.Export] : Write favorites to a CSV file
//     - Prefers the server-rendered document
//     - Falls back to rendering the favorite list locally
//
//  4. [LibraryEngine.BuildRadio] : Build a playback queue seeded from one song
//
//  5. [LibraryEngine.CollectMetrics] : Fetch the admin dashboard data set,
//     tolerating partial endpoint failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Song Caching
//
// The optional [SongCacher] interface enables automatic catalog persistence during syncs.
// Cache failures are collected per-song rather than aborting the sync.
package tasks
