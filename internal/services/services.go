package services

import (
	"context"

	"github.com/syncup-music/syncup/internal/models"
)

// Authenticator covers credential exchange with the API.
type Authenticator interface {
	// Login exchanges username/password for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates an account and returns the server's confirmation text.
	Register(ctx context.Context, username, password, name string) (string, error)

	// Logout invalidates the current server-side session.
	Logout(ctx context.Context) error

	// Session retrieves the profile behind the current bearer token.
	Session(ctx context.Context) (*models.Profile, error)
}

// Catalog covers read access to the song catalog, including search and
// discovery reads.
type Catalog interface {
	Songs(ctx context.Context) ([]models.Song, error)
	Song(ctx context.Context, id string) (*models.Song, error)

	// Search queries a single field ("titulo" or "genero").
	Search(ctx context.Context, field, value string) ([]models.Song, error)

	// SearchAll fans a free-text query out over title, genre and artist and
	// merges the results, deduplicated by song id. Individual query failures
	// are tolerated; only a fully failed fan-out is an error.
	SearchAll(ctx context.Context, query string) ([]models.Song, error)

	SearchAdvanced(ctx context.Context, query AdvancedQuery) ([]models.Song, error)
	Autocomplete(ctx context.Context, prefix string) ([]string, error)
	Similar(ctx context.Context, id string, limit int) ([]models.Song, error)
	Radio(ctx context.Context, id string, limit int) ([]models.Song, error)
}

// Library covers the per-user favorite set and discovery feed.
type Library interface {
	Favorites(ctx context.Context, username string) ([]models.Song, error)
	AddFavorite(ctx context.Context, username, songID string) error
	RemoveFavorite(ctx context.Context, username, songID string) error

	// ExportFavorites returns the server-rendered CSV document.
	ExportFavorites(ctx context.Context, username string) ([]byte, error)

	Discovery(ctx context.Context, username string, size int) ([]models.Song, error)
}

// ProfileManager covers account self-service updates. Both operations
// return the server's confirmation message.
type ProfileManager interface {
	UpdateName(ctx context.Context, username, newName string) (string, error)
	ChangePassword(ctx context.Context, username, newPassword string) (string, error)
}

// Social covers the follow graph.
type Social interface {
	Follow(ctx context.Context, follower, target string) (string, error)
	Unfollow(ctx context.Context, follower, target string) (string, error)
	Following(ctx context.Context, username string) ([]string, error)
	SuggestUsers(ctx context.Context, username string, limit int) ([]string, error)
}

// Admin covers catalog and user management plus the metrics dashboard.
// Every operation requires an admin bearer token; the server enforces it.
type Admin interface {
	CreateSong(ctx context.Context, input models.SongInput) (*models.Song, error)
	UpdateSong(ctx context.Context, id string, input models.SongInput) (*models.Song, error)
	DeleteSong(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.Profile, error)
	DeleteUser(ctx context.Context, username string) error

	DownloadsPerDay(ctx context.Context) (map[string]int64, error)
	TopExporters(ctx context.Context, limit int) ([]models.TopUser, error)
	TopArtists(ctx context.Context, limit int) (map[string]int64, error)
	TopGenres(ctx context.Context, limit int) (map[string]int64, error)
}

// AdvancedQuery holds the multi-field search form. Zero-valued fields are
// omitted from the request; Op combines the present ones ("AND" or "OR").
type AdvancedQuery struct {
	Title    string
	Artist   string
	Genre    string
	YearFrom int
	YearTo   int
	Op       string
}
