package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
)

// SongRepository implements models.Repository[*models.CachedSong] for the
// local catalog cache.
//
// Rows mirror catalog entries fetched from the API, keyed locally by UUID and
// remotely by the server's song id. Soft deletes keep rows for removed
// catalog entries out of queries without losing favorite history.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.CachedSong] with generated ID and sequence
func (r *SongRepository) Create(cached *models.CachedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	cached.SetID(id)
	cached.SetSequence(sequence)

	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	song := cached.Song()
	query := `
		INSERT INTO songs (id, sequence, remote_id, title, artist, genre, year, duration, file_name, favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.ID,
		song.Title,
		song.Artist,
		song.Genre,
		song.Year,
		song.Duration,
		song.FileName,
		cached.Favorite(),
		cached.CreatedAt(),
		cached.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a cached song by local ID, excluding soft-deleted rows
func (r *SongRepository) Get(id string) (*models.CachedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, genre, year, duration, file_name, favorite, created_at, updated_at, deleted_at
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanSong(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached song by the server-side catalog id
func (r *SongRepository) GetByRemoteID(remoteID string) (*models.CachedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, genre, year, duration, file_name, favorite, created_at, updated_at, deleted_at
		FROM songs
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return scanSong(r.db.QueryRow(query, remoteID))
}

// Update refreshes the catalog fields and favorite flag of an existing row
func (r *SongRepository) Update(cached *models.CachedSong) error {
	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	cached.SetUpdatedAt(now)

	song := cached.Song()
	query := `
		UPDATE songs
		SET title = ?, artist = ?, genre = ?, year = ?, duration = ?, file_name = ?, favorite = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title,
		song.Artist,
		song.Genre,
		song.Year,
		song.Duration,
		song.FileName,
		cached.Favorite(),
		now,
		cached.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", cached.ID())
	}

	return nil
}

// Delete soft-deletes a cached song by local ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves cached songs matching the given criteria, excluding soft-deleted rows.
//
// Supported criteria: "artist", "genre" (exact match) and "favorite" (bool).
func (r *SongRepository) List(criteria map[string]any) ([]*models.CachedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, genre, year, duration, file_name, favorite, created_at, updated_at, deleted_at
		FROM songs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	if favorite, ok := criteria["favorite"].(bool); ok && favorite {
		query += " AND favorite = 1"
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.CachedSong
	for rows.Next() {
		cached, err := scanSongRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, cached)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// SetFavorite flips the favorite flag for the row with the given remote id
func (r *SongRepository) SetFavorite(remoteID string, favorite bool) error {
	query := `
		UPDATE songs
		SET favorite = ?, updated_at = ?
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, favorite, time.Now(), remoteID)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not cached: %s", remoteID)
	}

	return nil
}

func scanSong(row *sql.Row) (*models.CachedSong, error) {
	cached, err := scanSongFields(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("song not found")
	}
	return cached, err
}

func scanSongRow(rows *sql.Rows) (*models.CachedSong, error) {
	return scanSongFields(rows.Scan)
}

func scanSongFields(scan func(dest ...any) error) (*models.CachedSong, error) {
	var (
		id        string
		sequence  int
		remoteID  string
		title     string
		artist    string
		genre     sql.NullString
		year      sql.NullInt64
		duration  sql.NullFloat64
		fileName  sql.NullString
		favorite  bool
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &remoteID, &title, &artist, &genre, &year, &duration, &fileName, &favorite, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.Song{
		ID:       remoteID,
		Title:    title,
		Artist:   artist,
		Genre:    genre.String,
		Year:     int(year.Int64),
		Duration: duration.Float64,
		FileName: fileName.String,
	}

	cached := models.NewCachedSong(sequence, song)
	cached.SetID(id)
	cached.SetFavorite(favorite)
	cached.SetCreatedAt(createdAt)
	cached.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		cached.SetDeletedAt(&deletedAt.Time)
	}

	return cached, nil
}
