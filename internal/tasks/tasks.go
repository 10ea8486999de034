// package tasks implements multi-step library operations against the SyncUp API.
//
// The core abstraction is LibraryEngine, which orchestrates catalog syncs, favorite
// updates, exports, radio queues, and metrics collection. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/formatter"
	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/shared"
)

// SyncResult contains all data from a catalog sync operation.
type SyncResult struct {
	CatalogCount  int      // Songs seen in the remote catalog
	FavoriteCount int      // Favorites of the syncing user
	CachedCount   int      // Songs written to the local cache
	CacheErrors   []string // Remote ids that failed to cache
}

// FavoriteResult reports the authoritative favorite set after a mutation.
//
// Applied is false when the server rejected the change; Favorites then holds
// the re-fetched server-side state rather than the optimistic one.
type FavoriteResult struct {
	Applied   bool
	Favorites []models.Song
	Err       error
}

// ExportResult contains the paths of files created by a favorites export.
type ExportResult struct {
	Path      string
	SongCount int
	Source    string // "server" or "local"
}

// RadioResult contains a seeded playback queue.
type RadioResult struct {
	Seed  models.Song
	Queue []models.Song
}

// MetricResult represents a single failed metrics fetch.
type MetricResult struct {
	Name  string
	Error error
}

// MetricsReport aggregates the admin dashboard data, tolerating partial failures.
type MetricsReport struct {
	Metrics models.Metrics
	Errors  []MetricResult
}

// SongCacher persists catalog songs seen during sync operations.
//
// Implemented by repositories.SongCacheAdapter. Cache failures are collected
// rather than aborting the sync.
type SongCacher interface {
	CacheSong(song models.Song) error
	MarkFavorites(remoteIDs []string) error
}

// LibraryEngine orchestrates library operations with dependencies on the
// catalog and library services plus an optional local cache.
type LibraryEngine struct {
	catalog services.Catalog
	library services.Library
	admin   services.Admin
	cache   SongCacher
}

// NewLibraryEngine creates a LibraryEngine with the provided services.
// The cache may be nil; sync then skips local persistence.
func NewLibraryEngine(catalog services.Catalog, library services.Library, admin services.Admin, cache SongCacher) *LibraryEngine {
	return &LibraryEngine{
		catalog: catalog,
		library: library,
		admin:   admin,
		cache:   cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Sync pulls the remote catalog and the user's favorites into the local cache.
func (e *LibraryEngine) Sync(ctx context.Context, username string, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.catalog == nil || e.library == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{}

	e.sendProgress(progress, fetchCatalogUpdate(1, 2))
	songs, err := e.catalog.Songs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch catalog: %v", shared.ErrAPIRequest, err)
	}
	result.CatalogCount = len(songs)

	e.sendProgress(progress, fetchFavoritesUpdate(2, 2, username))
	favorites, err := e.library.Favorites(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch favorites: %v", shared.ErrAPIRequest, err)
	}
	result.FavoriteCount = len(favorites)

	if e.cache == nil {
		return result, nil
	}

	total := len(songs)
	e.sendProgress(progress, cacheSongUpdate(0, total, nil))

	for i, song := range songs {
		e.sendProgress(progress, cacheSongUpdate(i+1, total, &song))

		if err := e.cache.CacheSong(song); err != nil {
			result.CacheErrors = append(result.CacheErrors, song.ID)
			continue
		}
		result.CachedCount++
	}

	favoriteIDs := make([]string, 0, len(favorites))
	for _, song := range favorites {
		favoriteIDs = append(favoriteIDs, song.ID)
	}
	if err := e.cache.MarkFavorites(favoriteIDs); err != nil {
		return result, fmt.Errorf("failed to reconcile cached favorites: %w", err)
	}

	return result, nil
}

// ToggleFavorite applies an add or remove and returns the authoritative
// favorite set. When the mutation fails, the server-side list is re-fetched
// so callers can roll back optimistic state.
func (e *LibraryEngine) ToggleFavorite(ctx context.Context, username, songID string, add bool, progress chan<- ProgressUpdate) (*FavoriteResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	var mutErr error
	if add {
		mutErr = e.library.AddFavorite(ctx, username, songID)
	} else {
		mutErr = e.library.RemoveFavorite(ctx, username, songID)
	}

	if mutErr != nil {
		e.sendProgress(progress, reconcileUpdate(1, 1))
	}

	favorites, err := e.library.Favorites(ctx, username)
	if err != nil {
		if mutErr != nil {
			return nil, fmt.Errorf("favorite update failed (%v) and re-fetch failed: %w", mutErr, err)
		}
		return nil, fmt.Errorf("%w: failed to fetch favorites: %v", shared.ErrAPIRequest, err)
	}

	return &FavoriteResult{
		Applied:   mutErr == nil,
		Favorites: favorites,
		Err:       mutErr,
	}, nil
}

// Export writes the user's favorites to a CSV file.
//
// The server-rendered document is preferred; when that endpoint fails, the
// export falls back to rendering the favorite list locally.
func (e *LibraryEngine) Export(ctx context.Context, username, path string, progress chan<- ProgressUpdate) (*ExportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, exportingUpdate(1, 2, username))

	if data, err := e.library.ExportFavorites(ctx, username); err == nil && len(data) > 0 {
		written, err := formatter.WriteServerCSV(username, data, path)
		if err != nil {
			return nil, err
		}

		e.sendProgress(progress, exportCompletedUpdate(2, 2, written))
		return &ExportResult{Path: written, Source: "server"}, nil
	}

	favorites, err := e.library.Favorites(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch favorites: %v", shared.ErrAPIRequest, err)
	}

	export := &models.FavoritesExport{Username: username, Songs: favorites}
	base := path
	if base == "" {
		base = username
	}
	result, err := formatter.WriteCSVExport(export, base)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, exportCompletedUpdate(2, 2, result.SongsFile))
	return &ExportResult{
		Path:      result.SongsFile,
		SongCount: len(favorites),
		Source:    "local",
	}, nil
}

// BuildRadio fetches a playback queue seeded from one song. The seed song
// leads the queue; the server decides the rest.
func (e *LibraryEngine) BuildRadio(ctx context.Context, seedID string, limit int, progress chan<- ProgressUpdate) (*RadioResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	seed, err := e.catalog.Song(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("%w: seed song not found: %v", shared.ErrSongNotFound, err)
	}

	e.sendProgress(progress, fetchRadioUpdate(1, 1, seed))

	queue, err := e.catalog.Radio(ctx, seedID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build radio queue: %v", shared.ErrAPIRequest, err)
	}

	if len(queue) == 0 || queue[0].ID != seed.ID {
		queue = append([]models.Song{*seed}, queue...)
	}

	return &RadioResult{Seed: *seed, Queue: queue}, nil
}

// CollectMetrics fetches the admin dashboard data set. Individual endpoint
// failures are collected in the report rather than aborting the whole fetch.
func (e *LibraryEngine) CollectMetrics(ctx context.Context, limit int, progress chan<- ProgressUpdate) (*MetricsReport, error) {
	if e.admin == nil {
		return nil, fmt.Errorf("%w: admin service not initialized", shared.ErrServiceUnavailable)
	}

	report := &MetricsReport{Errors: []MetricResult{}}

	type metricOperation struct {
		name  string
		fetch func() error
	}

	operations := []metricOperation{
		{name: "downloads per day", fetch: func() error {
			data, err := e.admin.DownloadsPerDay(ctx)
			report.Metrics.DownloadsPerDay = data
			return err
		}},
		{name: "top exporters", fetch: func() error {
			data, err := e.admin.TopExporters(ctx, limit)
			report.Metrics.TopExporters = data
			return err
		}},
		{name: "top artists", fetch: func() error {
			data, err := e.admin.TopArtists(ctx, limit)
			report.Metrics.TopArtists = data
			return err
		}},
		{name: "top genres", fetch: func() error {
			data, err := e.admin.TopGenres(ctx, limit)
			report.Metrics.TopGenres = data
			return err
		}},
	}

	total := len(operations)
	for i, op := range operations {
		e.sendProgress(progress, metricUpdate(op.name, i+1, total))

		if err := op.fetch(); err != nil {
			report.Errors = append(report.Errors, MetricResult{Name: op.name, Error: err})
		}
	}

	if len(report.Errors) == total {
		return report, fmt.Errorf("%w: all metrics endpoints failed", shared.ErrAPIRequest)
	}

	return report, nil
}
