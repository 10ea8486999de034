package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// AdminSongCreate adds a song to the catalog.
func (r *Runner) AdminSongCreate(ctx context.Context, cmd *cli.Command) error {
	input := models.SongInput{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Genre:    cmd.String("genre"),
		Year:     cmd.Int("year"),
		Duration: cmd.Float("duration"),
		FileName: cmd.String("file"),
	}

	song, err := r.service.CreateSong(ctx, input)
	if err != nil {
		return err
	}

	r.logger.Infof("created song %v", song.ID)
	return r.writePlain("✓ Created %s - %s (id %s)\n", song.Artist, song.Title, song.ID)
}

// AdminSongUpdate updates a catalog entry.
func (r *Runner) AdminSongUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	input := models.SongInput{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Genre:    cmd.String("genre"),
		Year:     cmd.Int("year"),
		Duration: cmd.Float("duration"),
		FileName: cmd.String("file"),
	}

	song, err := r.service.UpdateSong(ctx, id, input)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Updated %s - %s\n", song.Artist, song.Title)
}

// AdminSongDelete removes a song from the catalog.
func (r *Runner) AdminSongDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.service.DeleteSong(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Song %s deleted\n", id)
}

// AdminUsersList prints all registered users.
func (r *Runner) AdminUsersList(ctx context.Context, cmd *cli.Command) error {
	users, err := r.service.ListUsers(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, user := range users {
		line := user.Username
		if user.Name != "" {
			line += fmt.Sprintf(" (%s)", user.Name)
		}
		if user.Role != "" {
			line += fmt.Sprintf(" [%s]", user.Role)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// AdminUserDelete removes an account after an interactive confirmation.
//
// The deletion is destructive and slow on the server side, so the request
// carries its own generous timeout downstream.
func (r *Runner) AdminUserDelete(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	if identity := r.store.Identity(); identity.Username == username {
		return fmt.Errorf("%w: cannot delete the signed-in account", shared.ErrInvalidArgument)
	}

	if !cmd.Bool("yes") {
		answer, err := r.promptLine(fmt.Sprintf("Delete user %q and all their data? [y/N]", username))
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
		default:
			return r.writePlain("Aborted\n")
		}
	}

	r.logger.Warnf("deleting user %v", username)

	if err := r.service.DeleteUser(ctx, username); err != nil {
		return err
	}

	return r.writePlain("✓ User %s deleted\n", username)
}

// AdminMetrics prints the activity dashboard, tolerating partially failed fetches.
func (r *Runner) AdminMetrics(ctx context.Context, cmd *cli.Command) error {
	report, err := r.engine.CollectMetrics(ctx, cmd.Int("limit"), nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report.Metrics, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Activity Dashboard")

	if len(report.Metrics.DownloadsPerDay) > 0 {
		r.writePlain("Exports per day:\n")
		days := make([]string, 0, len(report.Metrics.DownloadsPerDay))
		for day := range report.Metrics.DownloadsPerDay {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			r.writePlain("  %s: %d\n", day, report.Metrics.DownloadsPerDay[day])
		}
	}

	if len(report.Metrics.TopExporters) > 0 {
		r.writePlain("Top exporters:\n")
		for i, user := range report.Metrics.TopExporters {
			r.writePlain("  %d. %s (%d)\n", i+1, user.Username, user.Total)
		}
	}

	r.writeRanked("Top favorited artists", report.Metrics.TopArtists)
	r.writeRanked("Top favorited genres", report.Metrics.TopGenres)

	for _, failure := range report.Errors {
		r.logger.Warnf("metric %v unavailable: %v", failure.Name, failure.Error)
	}
	return nil
}

// writeRanked prints a count map in descending order, names breaking ties.
func (r *Runner) writeRanked(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}

	type entry struct {
		name  string
		total int64
	}
	entries := make([]entry, 0, len(counts))
	for name, total := range counts {
		entries = append(entries, entry{name, total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].name < entries[j].name
	})

	r.writePlain("%s:\n", title)
	for i, e := range entries {
		r.writePlain("  %d. %s (%d)\n", i+1, e.name, e.total)
	}
}
