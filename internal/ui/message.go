package ui

import (
	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/tasks"
)

// loginCompleteMsg reports the outcome of a credential exchange.
type loginCompleteMsg struct {
	token string
	err   error
}

// songsFetchedMsg carries a catalog or favorites listing.
type songsFetchedMsg struct {
	songs []models.Song
	err   error
}

// favoritesFetchedMsg carries the authoritative favorite set.
type favoritesFetchedMsg struct {
	songs   []models.Song
	applied bool
	err     error
}

// searchDebounceMsg fires after the debounce interval with the sequence
// number current at keystroke time.
type searchDebounceMsg struct {
	seq int
}

// searchResultsMsg carries search or autocomplete results tagged with the
// sequence number of the query that produced them. Results whose sequence is
// older than the latest keystroke are discarded.
type searchResultsMsg struct {
	seq         int
	songs       []models.Song
	suggestions []string
	err         error
}

// radioBuiltMsg carries a seeded playback queue.
type radioBuiltMsg struct {
	result *tasks.RadioResult
	err    error
}

// socialFetchedMsg carries the follow list and suggestions.
type socialFetchedMsg struct {
	following   []string
	suggestions []string
	err         error
}

// usersFetchedMsg carries the admin user listing.
type usersFetchedMsg struct {
	users []models.Profile
	err   error
}

// metricsFetchedMsg carries the admin metrics report.
type metricsFetchedMsg struct {
	report *tasks.MetricsReport
	err    error
}
