package main

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
	"github.com/syncup-music/syncup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// cacheLister is the optional read side of the song cache, implemented by
// repositories.SongCacheAdapter.
type cacheLister interface {
	Cached() ([]models.Song, map[string]bool, error)
}

// CacheSync fetches the catalog and the user's favorites into the local database.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: catalog cache disabled, run 'syncup setup database' first", shared.ErrServiceUnavailable)
	}

	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("syncing catalog for %v", username)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.Sync(ctx, username, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Sync complete\n")
	r.writePlain("Catalog: %d songs\n", result.CatalogCount)
	r.writePlain("Favorites: %d songs\n", result.FavoriteCount)
	r.writePlain("Cached: %d songs\n", result.CachedCount)
	for _, failed := range result.CacheErrors {
		r.logger.Warnf("failed to cache song %v", failed)
	}
	return nil
}

// CacheList prints the cached catalog without touching the network.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	lister, ok := r.cache.(cacheLister)
	if !ok {
		return fmt.Errorf("%w: catalog cache disabled, run 'syncup setup database' first", shared.ErrServiceUnavailable)
	}

	songs, favorites, err := lister.Cached()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Cached catalog (%d songs)", len(songs)))
	for i, song := range songs {
		marker := "  "
		if favorites[song.ID] {
			marker = "♥ "
		}
		line := fmt.Sprintf("%s%d. %s - %s", marker, i+1, song.Artist, song.Title)
		if song.Genre != "" {
			line += fmt.Sprintf(" [%s]", song.Genre)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
