package main

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongsList fetches and prints the full catalog.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("fetching catalog")

	songs, err := r.service.Songs(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Catalog (%d songs)", len(songs)))
	r.writeSongList(songs)
	return nil
}

// SongsGet prints a single song by id.
func (r *Runner) SongsGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, err := r.service.Song(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s\n", song.Artist, song.Title)
	if song.Genre != "" {
		r.writePlain("Genre: %s\n", song.Genre)
	}
	if song.Year != 0 {
		r.writePlain("Year: %d\n", song.Year)
	}
	if song.Duration > 0 {
		r.writePlain("Duration: %s\n", shared.FormatDuration(int(song.Duration)))
	}
	return nil
}

// SongsSearch runs a free-text search, or a single-field one when --field is set.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	var songs []models.Song
	var err error

	if field := cmd.String("field"); field != "" {
		r.logger.Infof("searching %v for %q", field, query)
		songs, err = r.service.Search(ctx, field, query)
	} else {
		r.logger.Infof("searching catalog for %q", query)
		songs, err = r.service.SearchAll(ctx, query)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	if len(songs) == 0 {
		return r.writePlain("No songs matched %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(songs)))
	r.writeSongList(songs)
	return nil
}

// SongsAdvanced runs the multi-field search form.
func (r *Runner) SongsAdvanced(ctx context.Context, cmd *cli.Command) error {
	query := services.AdvancedQuery{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Genre:    cmd.String("genre"),
		YearFrom: cmd.Int("year-from"),
		YearTo:   cmd.Int("year-to"),
		Op:       cmd.String("op"),
	}

	if query.Title == "" && query.Artist == "" && query.Genre == "" && query.YearFrom == 0 && query.YearTo == 0 {
		return fmt.Errorf("%w: at least one search field", shared.ErrMissingArgument)
	}

	songs, err := r.service.SearchAdvanced(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Advanced search (%d results)", len(songs)))
	r.writeSongList(songs)
	return nil
}

// SongsAutocomplete prints title suggestions for a prefix.
func (r *Runner) SongsAutocomplete(ctx context.Context, cmd *cli.Command) error {
	prefix := cmd.StringArg("prefix")
	if prefix == "" {
		return fmt.Errorf("%w: prefix", shared.ErrMissingArgument)
	}

	suggestions, err := r.service.Autocomplete(ctx, prefix)
	if err != nil {
		return err
	}

	for _, suggestion := range suggestions {
		r.writePlain("%s\n", suggestion)
	}
	return nil
}

// SongsSimilar lists songs similar to the given seed.
func (r *Runner) SongsSimilar(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	songs, err := r.service.Similar(ctx, id, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Similar songs (%d)", len(songs)))
	r.writeSongList(songs)
	return nil
}

// SongsRadio builds and prints a radio queue seeded by a song.
func (r *Runner) SongsRadio(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: seed song id", shared.ErrMissingArgument)
	}

	r.logger.Infof("building radio queue from %v", id)

	result, err := r.engine.BuildRadio(ctx, id, cmd.Int("limit"), nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Queue, true)
	}

	r.writePlainHeader(fmt.Sprintf("Radio: %s - %s", result.Seed.Artist, result.Seed.Title))
	r.writeSongList(result.Queue)
	return nil
}
