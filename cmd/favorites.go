package main

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the user's favorite songs.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	songs, err := r.service.Favorites(ctx, username)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Favorites of %s (%d)", username, len(songs)))
	r.writeSongList(songs)
	return nil
}

// FavoritesAdd marks a song as favorite. The authoritative server state is
// re-fetched after the call, so a rejected mutation is reported honestly.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.toggleFavorite(ctx, cmd, true)
}

// FavoritesRemove unmarks a favorite song.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.toggleFavorite(ctx, cmd, false)
}

func (r *Runner) toggleFavorite(ctx context.Context, cmd *cli.Command, add bool) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	result, err := r.engine.ToggleFavorite(ctx, username, songID, add, nil)
	if err != nil {
		return err
	}

	if !result.Applied {
		r.writePlain("✗ Change rejected by the server: %v\n", result.Err)
		return r.writePlain("Favorites remain at %d songs\n", len(result.Favorites))
	}

	if add {
		r.writePlain("✓ Added to favorites\n")
	} else {
		r.writePlain("✓ Removed from favorites\n")
	}
	return r.writePlain("Favorites now hold %d songs\n", len(result.Favorites))
}

// FavoritesExport writes the favorites CSV document to disk.
//
// The server-rendered document is preferred; a locally generated one is the
// fallback when the export endpoint is unavailable.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("exporting favorites of %v", username)

	result, err := r.engine.Export(ctx, username, cmd.String("output"), nil)
	if err != nil {
		return err
	}

	if result.Source == "server" {
		return r.writePlain("✓ Server export saved to %s\n", result.Path)
	}

	r.writePlain("✓ Exported %d songs to %s\n", result.SongCount, result.Path)
	return r.writePlain("Note: export endpoint unavailable, document generated locally\n")
}

// FavoritesDiscovery prints the personalized discovery feed.
func (r *Runner) FavoritesDiscovery(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	songs, err := r.service.Discovery(ctx, username, cmd.Int("size"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	if len(songs) == 0 {
		return r.writePlain("Nothing to discover yet, favorite a few songs first\n")
	}

	r.writePlainHeader(fmt.Sprintf("Discovery for %s (%d)", username, len(songs)))
	r.writeSongList(songs)
	return nil
}
