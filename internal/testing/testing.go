// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
)

// MockAuthenticator is a configurable test double for [services.Authenticator]
type MockAuthenticator struct {
	LoginFn func(ctx context.Context, username, password string) (string, error)
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return "", errors.New("login not configured")
}

func (m *MockAuthenticator) Register(ctx context.Context, username, password, name string) (string, error) {
	return "registered", nil
}

func (m *MockAuthenticator) Logout(ctx context.Context) error { return nil }

func (m *MockAuthenticator) Session(ctx context.Context) (*models.Profile, error) {
	return &models.Profile{}, nil
}

// MockCatalog is a configurable test double for [services.Catalog]
type MockCatalog struct {
	SongsFn    func(ctx context.Context) ([]models.Song, error)
	SongFn     func(ctx context.Context, id string) (*models.Song, error)
	SearchFn   func(ctx context.Context, field, value string) ([]models.Song, error)
	AutocompFn func(ctx context.Context, prefix string) ([]string, error)
	SimilarFn  func(ctx context.Context, id string, limit int) ([]models.Song, error)
	RadioFn    func(ctx context.Context, id string, limit int) ([]models.Song, error)
}

func (m *MockCatalog) Songs(ctx context.Context) ([]models.Song, error) {
	if m.SongsFn != nil {
		return m.SongsFn(ctx)
	}
	return []models.Song{}, nil
}

func (m *MockCatalog) Song(ctx context.Context, id string) (*models.Song, error) {
	if m.SongFn != nil {
		return m.SongFn(ctx, id)
	}
	return &models.Song{ID: id}, nil
}

func (m *MockCatalog) Search(ctx context.Context, field, value string) ([]models.Song, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, field, value)
	}
	return []models.Song{}, nil
}

func (m *MockCatalog) SearchAll(ctx context.Context, query string) ([]models.Song, error) {
	return m.Search(ctx, "titulo", query)
}

func (m *MockCatalog) SearchAdvanced(ctx context.Context, query services.AdvancedQuery) ([]models.Song, error) {
	return []models.Song{}, nil
}

func (m *MockCatalog) Autocomplete(ctx context.Context, prefix string) ([]string, error) {
	if m.AutocompFn != nil {
		return m.AutocompFn(ctx, prefix)
	}
	return []string{}, nil
}

func (m *MockCatalog) Similar(ctx context.Context, id string, limit int) ([]models.Song, error) {
	if m.SimilarFn != nil {
		return m.SimilarFn(ctx, id, limit)
	}
	return []models.Song{}, nil
}

func (m *MockCatalog) Radio(ctx context.Context, id string, limit int) ([]models.Song, error) {
	if m.RadioFn != nil {
		return m.RadioFn(ctx, id, limit)
	}
	return []models.Song{}, nil
}

// MockLibrary is a configurable test double for [services.Library]
type MockLibrary struct {
	FavoritesFn func(ctx context.Context, username string) ([]models.Song, error)
	AddFn       func(ctx context.Context, username, songID string) error
	RemoveFn    func(ctx context.Context, username, songID string) error
	ExportFn    func(ctx context.Context, username string) ([]byte, error)
	DiscoveryFn func(ctx context.Context, username string, size int) ([]models.Song, error)
}

func (m *MockLibrary) Favorites(ctx context.Context, username string) ([]models.Song, error) {
	if m.FavoritesFn != nil {
		return m.FavoritesFn(ctx, username)
	}
	return []models.Song{}, nil
}

func (m *MockLibrary) AddFavorite(ctx context.Context, username, songID string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, username, songID)
	}
	return nil
}

func (m *MockLibrary) RemoveFavorite(ctx context.Context, username, songID string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, username, songID)
	}
	return nil
}

func (m *MockLibrary) ExportFavorites(ctx context.Context, username string) ([]byte, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, username)
	}
	return nil, errors.New("export not configured")
}

func (m *MockLibrary) Discovery(ctx context.Context, username string, size int) ([]models.Song, error) {
	if m.DiscoveryFn != nil {
		return m.DiscoveryFn(ctx, username, size)
	}
	return []models.Song{}, nil
}

// MockAdmin is a configurable test double for [services.Admin]
type MockAdmin struct {
	DownloadsFn    func(ctx context.Context) (map[string]int64, error)
	TopExportersFn func(ctx context.Context, limit int) ([]models.TopUser, error)
	TopArtistsFn   func(ctx context.Context, limit int) (map[string]int64, error)
	TopGenresFn    func(ctx context.Context, limit int) (map[string]int64, error)
}

func (m *MockAdmin) CreateSong(ctx context.Context, input models.SongInput) (*models.Song, error) {
	return &models.Song{ID: "mock", Title: input.Title}, nil
}

func (m *MockAdmin) UpdateSong(ctx context.Context, id string, input models.SongInput) (*models.Song, error) {
	return &models.Song{ID: id, Title: input.Title}, nil
}

func (m *MockAdmin) DeleteSong(ctx context.Context, id string) error { return nil }

func (m *MockAdmin) ListUsers(ctx context.Context) ([]models.Profile, error) {
	return []models.Profile{}, nil
}

func (m *MockAdmin) DeleteUser(ctx context.Context, username string) error { return nil }

func (m *MockAdmin) DownloadsPerDay(ctx context.Context) (map[string]int64, error) {
	if m.DownloadsFn != nil {
		return m.DownloadsFn(ctx)
	}
	return map[string]int64{}, nil
}

func (m *MockAdmin) TopExporters(ctx context.Context, limit int) ([]models.TopUser, error) {
	if m.TopExportersFn != nil {
		return m.TopExportersFn(ctx, limit)
	}
	return []models.TopUser{}, nil
}

func (m *MockAdmin) TopArtists(ctx context.Context, limit int) (map[string]int64, error) {
	if m.TopArtistsFn != nil {
		return m.TopArtistsFn(ctx, limit)
	}
	return map[string]int64{}, nil
}

func (m *MockAdmin) TopGenres(ctx context.Context, limit int) (map[string]int64, error) {
	if m.TopGenresFn != nil {
		return m.TopGenresFn(ctx, limit)
	}
	return map[string]int64{}, nil
}

// MockSocial is a configurable test double for [services.Social]
type MockSocial struct {
	FollowFn    func(ctx context.Context, follower, target string) (string, error)
	UnfollowFn  func(ctx context.Context, follower, target string) (string, error)
	FollowingFn func(ctx context.Context, username string) ([]string, error)
	SuggestFn   func(ctx context.Context, username string, limit int) ([]string, error)
}

func (m *MockSocial) Follow(ctx context.Context, follower, target string) (string, error) {
	if m.FollowFn != nil {
		return m.FollowFn(ctx, follower, target)
	}
	return "ok", nil
}

func (m *MockSocial) Unfollow(ctx context.Context, follower, target string) (string, error) {
	if m.UnfollowFn != nil {
		return m.UnfollowFn(ctx, follower, target)
	}
	return "ok", nil
}

func (m *MockSocial) Following(ctx context.Context, username string) ([]string, error) {
	if m.FollowingFn != nil {
		return m.FollowingFn(ctx, username)
	}
	return []string{}, nil
}

func (m *MockSocial) SuggestUsers(ctx context.Context, username string, limit int) ([]string, error) {
	if m.SuggestFn != nil {
		return m.SuggestFn(ctx, username, limit)
	}
	return []string{}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
