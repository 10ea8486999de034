package repositories

import (
	"fmt"
	"strings"

	"github.com/syncup-music/syncup/internal/models"
)

// SongCacheAdapter implements tasks.SongCacher using SongRepository.
//
// Catalog entries seen over the API are upserted into the local cache so
// listings and exports keep working between syncs. Concurrent inserts of the
// same remote id are tolerated via the UNIQUE constraint.
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong inserts or refreshes the cache row for a catalog song.
func (a *SongCacheAdapter) CacheSong(song models.Song) error {
	existing, err := a.repo.GetByRemoteID(song.ID)
	if err == nil && existing != nil {
		existing.ReplaceSong(song)
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached song: %w", err)
		}
		return nil
	}

	cached := models.NewCachedSong(0, song)

	err = a.repo.Create(cached)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}

// Cached returns the cached catalog in insertion order plus the set of
// remote ids currently flagged as favorites.
func (a *SongCacheAdapter) Cached() ([]models.Song, map[string]bool, error) {
	rows, err := a.repo.List(map[string]any{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cached songs: %w", err)
	}

	songs := make([]models.Song, 0, len(rows))
	favorites := make(map[string]bool)
	for _, row := range rows {
		songs = append(songs, row.Song())
		if row.Favorite() {
			favorites[row.RemoteID()] = true
		}
	}
	return songs, favorites, nil
}

// MarkFavorites reconciles the favorite flags in the cache with the given
// set of remote ids. Songs outside the set are unmarked.
func (a *SongCacheAdapter) MarkFavorites(remoteIDs []string) error {
	want := make(map[string]bool, len(remoteIDs))
	for _, id := range remoteIDs {
		want[id] = true
	}

	cached, err := a.repo.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list cached songs: %w", err)
	}

	for _, row := range cached {
		if row.Favorite() == want[row.RemoteID()] {
			continue
		}
		if err := a.repo.SetFavorite(row.RemoteID(), want[row.RemoteID()]); err != nil {
			return err
		}
	}

	return nil
}
