package repositories

import (
	"database/sql"
	"testing"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testSong(id, title string) models.Song {
	return models.Song{
		ID:       id,
		Title:    title,
		Artist:   "Test Artist",
		Genre:    "Rock",
		Year:     2001,
		Duration: 215.5,
		FileName: title + ".mp3",
	}
}

func TestSongRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, testSong("r-1", "One"))

		if err := repo.Create(cached); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if cached.ID() == "" {
			t.Error("song ID should be set after creation")
		}
		if cached.Sequence() == 0 {
			t.Error("sequence should be assigned on creation")
		}
	})

	t.Run("Create Rejects Invalid Row", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, models.Song{ID: "r-1"})

		if err := repo.Create(cached); err == nil {
			t.Error("expected validation error for missing title")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, testSong("r-1", "One"))

		if err := repo.Create(cached); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(cached.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.RemoteID() != "r-1" {
			t.Errorf("expected remote id 'r-1', got %s", retrieved.RemoteID())
		}
		if retrieved.Song().Duration != 215.5 {
			t.Errorf("expected duration 215.5, got %v", retrieved.Song().Duration)
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, testSong("r-1", "One"))

		if err := repo.Create(cached); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("r-1")
		if err != nil {
			t.Fatalf("failed to get song by remote id: %v", err)
		}
		if retrieved.ID() != cached.ID() {
			t.Errorf("expected local id %s, got %s", cached.ID(), retrieved.ID())
		}
	})

	t.Run("Duplicate Remote ID", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		if err := repo.Create(models.NewCachedSong(0, testSong("r-1", "One"))); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if err := repo.Create(models.NewCachedSong(0, testSong("r-1", "Copy"))); err == nil {
			t.Error("expected UNIQUE constraint error for duplicate remote id")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, testSong("r-1", "One"))

		if err := repo.Create(cached); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		song := cached.Song()
		song.Title = "One (Remastered)"
		cached.ReplaceSong(song)
		cached.SetFavorite(true)

		if err := repo.Update(cached); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		retrieved, err := repo.Get(cached.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if retrieved.Song().Title != "One (Remastered)" {
			t.Errorf("expected updated title, got %s", retrieved.Song().Title)
		}
		if !retrieved.Favorite() {
			t.Error("expected favorite flag to persist")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		cached := models.NewCachedSong(0, testSong("r-1", "One"))

		if err := repo.Create(cached); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(cached.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if _, err := repo.Get(cached.ID()); err == nil {
			t.Error("expected error when getting deleted song")
		}

		if err := repo.Delete(cached.ID()); err == nil {
			t.Error("expected error when deleting twice")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		first := models.NewCachedSong(0, testSong("r-1", "One"))
		second := models.NewCachedSong(0, testSong("r-2", "Two"))
		jazz := testSong("r-3", "Three")
		jazz.Genre = "Jazz"
		third := models.NewCachedSong(0, jazz)

		for _, cached := range []*models.CachedSong{first, second, third} {
			if err := repo.Create(cached); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		t.Run("All", func(t *testing.T) {
			songs, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list songs: %v", err)
			}
			if len(songs) != 3 {
				t.Fatalf("expected 3 songs, got %d", len(songs))
			}
			if songs[0].RemoteID() != "r-1" || songs[2].RemoteID() != "r-3" {
				t.Error("expected songs ordered by sequence")
			}
		})

		t.Run("By Genre", func(t *testing.T) {
			songs, err := repo.List(map[string]any{"genre": "Jazz"})
			if err != nil {
				t.Fatalf("failed to list songs: %v", err)
			}
			if len(songs) != 1 || songs[0].RemoteID() != "r-3" {
				t.Errorf("expected only the jazz song, got %d rows", len(songs))
			}
		})

		t.Run("Favorites Only", func(t *testing.T) {
			if err := repo.SetFavorite("r-2", true); err != nil {
				t.Fatalf("failed to set favorite: %v", err)
			}

			songs, err := repo.List(map[string]any{"favorite": true})
			if err != nil {
				t.Fatalf("failed to list songs: %v", err)
			}
			if len(songs) != 1 || songs[0].RemoteID() != "r-2" {
				t.Errorf("expected only the favorited song, got %d rows", len(songs))
			}
		})
	})

	t.Run("SetFavorite Unknown Song", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		if err := repo.SetFavorite("missing", true); err == nil {
			t.Error("expected error for uncached song")
		}
	})
}

func TestSongCacheAdapter(t *testing.T) {
	t.Run("CacheSong Inserts New Row", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		adapter := NewSongCacheAdapter(repo)

		if err := adapter.CacheSong(testSong("r-1", "One")); err != nil {
			t.Fatalf("failed to cache song: %v", err)
		}

		if _, err := repo.GetByRemoteID("r-1"); err != nil {
			t.Errorf("expected cached row, got %v", err)
		}
	})

	t.Run("CacheSong Refreshes Existing Row", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		adapter := NewSongCacheAdapter(repo)

		if err := adapter.CacheSong(testSong("r-1", "One")); err != nil {
			t.Fatalf("failed to cache song: %v", err)
		}

		updated := testSong("r-1", "One (Live)")
		if err := adapter.CacheSong(updated); err != nil {
			t.Fatalf("failed to refresh song: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("r-1")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if retrieved.Song().Title != "One (Live)" {
			t.Errorf("expected refreshed title, got %s", retrieved.Song().Title)
		}

		songs, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected a single row after refresh, got %d", len(songs))
		}
	})

	t.Run("MarkFavorites Reconciles Flags", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		adapter := NewSongCacheAdapter(repo)

		for i, title := range []string{"One", "Two", "Three"} {
			song := testSong(string(rune('a'+i)), title)
			if err := adapter.CacheSong(song); err != nil {
				t.Fatalf("failed to cache song: %v", err)
			}
		}
		if err := repo.SetFavorite("c", true); err != nil {
			t.Fatalf("failed to set favorite: %v", err)
		}

		if err := adapter.MarkFavorites([]string{"a", "b"}); err != nil {
			t.Fatalf("failed to mark favorites: %v", err)
		}

		favorites, err := repo.List(map[string]any{"favorite": true})
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		if len(favorites) != 2 {
			t.Fatalf("expected 2 favorites, got %d", len(favorites))
		}
		for _, cached := range favorites {
			if id := cached.RemoteID(); id != "a" && id != "b" {
				t.Errorf("unexpected favorite %s", id)
			}
		}
	})
}
