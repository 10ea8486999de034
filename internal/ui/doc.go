// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view session over the SyncUp catalog:
//  1. [LoginView] : Credential entry when no valid token is stored
//  2. [HomeView] : Browse the song catalog
//  3. [SearchView] : Debounced free-text search with autocomplete suggestions
//  4. [FavoritesView] : The user's favorite songs
//  5. [RadioView] : A seeded playback queue with wrap-around navigation
//  6. [SocialView] : Followed users and suggestions
//  7. [AdminView] : User listing and metrics, admin tokens only
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Every view transition re-evaluates the session guard, so an expired or
// evicted token drops the user back to the login view and non-admin sessions
// never reach the admin view.
//
// Search keystrokes restart a 300ms debounce timer. Queries and their
// responses carry a monotonically increasing sequence number; responses older
// than the latest keystroke are discarded, so a slow early query can never
// overwrite the results of a newer one.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
