package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
)

var (
	_ list.Item = songItem{}
	_ list.Item = userItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song     models.Song
	favorite bool
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if i.favorite {
		return "♥ " + i.song.Title
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Genre != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Genre)
	}
	if i.song.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(int(i.song.Duration)))
	}
	return desc
}

// userItem wraps a username to implement [list.Item].
type userItem struct {
	username string
	detail   string
}

func (i userItem) FilterValue() string { return i.username }
func (i userItem) Title() string       { return i.username }
func (i userItem) Description() string { return i.detail }

func songItems(songs []models.Song, favorites map[string]bool) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song, favorite: favorites[song.ID]}
	}
	return items
}

func userItems(usernames []string, detail string) []list.Item {
	items := make([]list.Item, len(usernames))
	for i, username := range usernames {
		items[i] = userItem{username: username, detail: detail}
	}
	return items
}
