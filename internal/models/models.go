// package models defines the data model for the SyncUp terminal client
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all locally persisted models.
// Implementations include [CachedSong].
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Song represents a catalog entry as returned by the SyncUp API.
// The catalog is owned and validated server-side; the client only renders it.
type Song struct {
	ID       string  `json:"id"`
	Title    string  `json:"titulo"`
	Artist   string  `json:"artista"`
	Genre    string  `json:"genero"`
	Year     int     `json:"anio"`
	Duration float64 `json:"duracion"` // seconds
	FileName string  `json:"fileName"`
}

// Profile represents the authenticated user's server-side profile.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"nombre"`
	Role     string `json:"rol"`
}

// SongInput holds the fields an admin submits when creating or updating a catalog entry.
type SongInput struct {
	Title    string  `json:"titulo"`
	Artist   string  `json:"artista"`
	Genre    string  `json:"genero"`
	Year     int     `json:"anio"`
	Duration float64 `json:"duracion"`
	FileName string  `json:"fileName,omitempty"`
}

// FavoritesExport bundles a user's favorite songs for file export.
type FavoritesExport struct {
	Username string `json:"username"`
	Songs    []Song `json:"canciones"`
}

// TopUser is one row of the top-exporters metrics ranking.
type TopUser struct {
	Username string `json:"username"`
	Total    int64  `json:"total"`
}

// Metrics aggregates the admin dashboard statistics.
// Ranked maps preserve only counts; ordering is reapplied at render time.
type Metrics struct {
	DownloadsPerDay map[string]int64
	TopExporters    []TopUser
	TopArtists      map[string]int64
	TopGenres       map[string]int64
}

// CachedSong wraps a [Song] with local persistence metadata for the SQLite catalog cache.
type CachedSong struct {
	id        string
	sequence  int
	song      Song
	favorite  bool
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedSong creates a cache row for the given catalog song.
func NewCachedSong(sequence int, song Song) *CachedSong {
	now := time.Now()
	return &CachedSong{
		sequence:  sequence,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (c *CachedSong) ID() string            { return c.id }
func (c *CachedSong) Sequence() int         { return c.sequence }
func (c *CachedSong) Song() Song            { return c.song }
func (c *CachedSong) RemoteID() string      { return c.song.ID }
func (c *CachedSong) Favorite() bool        { return c.favorite }
func (c *CachedSong) CreatedAt() time.Time  { return c.createdAt }
func (c *CachedSong) UpdatedAt() time.Time  { return c.updatedAt }
func (c *CachedSong) DeletedAt() *time.Time { return c.deletedAt }

func (c *CachedSong) SetID(id string)           { c.id = id }
func (c *CachedSong) SetFavorite(fav bool)      { c.favorite = fav }
func (c *CachedSong) SetUpdatedAt(t time.Time)  { c.updatedAt = t }
func (c *CachedSong) SetDeletedAt(t *time.Time) { c.deletedAt = t }
func (c *CachedSong) SetCreatedAt(t time.Time)  { c.createdAt = t }
func (c *CachedSong) SetSequence(seq int)       { c.sequence = seq }
func (c *CachedSong) ReplaceSong(song Song)     { c.song = song }

// Validate checks that the cache row references a real catalog entry.
func (c *CachedSong) Validate() error {
	if c.song.ID == "" {
		return fmt.Errorf("missing remote song id")
	}
	if c.song.Title == "" {
		return fmt.Errorf("missing song title")
	}
	return nil
}
