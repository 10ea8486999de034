package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/session"
	"github.com/syncup-music/syncup/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultRate    = 10.0

	// Deleting a user is the one call with a hard client-side deadline.
	userDeleteTimeout = 15 * time.Second
)

// SyncUpService implements [Authenticator], [Catalog], [Library], [Social]
// and [Admin] against the SyncUp HTTP API.
//
// Authenticated calls go through a client whose transport injects the
// current bearer token from the [session.Store] on every request; login and
// register use a plain client because no token exists yet.
type SyncUpService struct {
	baseURL     string
	authClient  *http.Client
	plainClient *http.Client
	limiter     *rate.Limiter
}

var (
	_ Authenticator  = (*SyncUpService)(nil)
	_ Catalog        = (*SyncUpService)(nil)
	_ Library        = (*SyncUpService)(nil)
	_ ProfileManager = (*SyncUpService)(nil)
	_ Social         = (*SyncUpService)(nil)
	_ Admin          = (*SyncUpService)(nil)
)

// NewSyncUpService creates a service for the API at baseURL, authorized by
// the given session store. A nil base transport uses [http.DefaultTransport];
// requestsPerSec <= 0 uses the default limit.
func NewSyncUpService(baseURL string, store *session.Store, base http.RoundTripper, requestsPerSec float64) *SyncUpService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if requestsPerSec <= 0 {
		requestsPerSec = defaultRate
	}

	return &SyncUpService{
		baseURL:     baseURL,
		authClient:  store.Client(base),
		plainClient: &http.Client{Transport: base},
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)),
	}
}

// apiError is the JSON error envelope some endpoints return.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
}

func (e apiError) text() string {
	for _, msg := range []string{e.Error, e.Message, e.Mensaje} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// do performs a rate-limited request and decodes a JSON response into result.
// A nil result discards the body; [io.Writer] results receive the raw bytes.
func (s *SyncUpService) do(ctx context.Context, client *http.Client, method, path string, query url.Values, body, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	fullURL := s.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.statusError(resp.StatusCode, data)
	}

	if result == nil || len(data) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if w, ok := result.(io.Writer); ok {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError converts a non-2xx response into a sentinel-wrapped error,
// surfacing the server's message (JSON envelope or plain text) when present.
func (s *SyncUpService) statusError(status int, body []byte) error {
	msg := string(bytes.TrimSpace(body))
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil {
		if text := envelope.text(); text != "" {
			msg = text
		}
	}

	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = shared.ErrNotAuthenticated
	case http.StatusForbidden:
		sentinel = shared.ErrNotAuthorized
	case http.StatusNotFound:
		sentinel = shared.ErrAPIRequest
	default:
		sentinel = shared.ErrAPIRequest
	}

	if msg == "" {
		return fmt.Errorf("%w: status %d", sentinel, status)
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, msg)
}

func (s *SyncUpService) get(ctx context.Context, path string, query url.Values, result any) error {
	return s.do(ctx, s.authClient, http.MethodGet, path, query, nil, result)
}

func (s *SyncUpService) post(ctx context.Context, path string, query url.Values, body, result any) error {
	return s.do(ctx, s.authClient, http.MethodPost, path, query, body, result)
}

func (s *SyncUpService) put(ctx context.Context, path string, query url.Values, result any) error {
	return s.do(ctx, s.authClient, http.MethodPut, path, query, nil, result)
}

func (s *SyncUpService) delete(ctx context.Context, path string, query url.Values, result any) error {
	return s.do(ctx, s.authClient, http.MethodDelete, path, query, nil, result)
}

// ---- Authenticator ----

// Login exchanges credentials for a bearer token via
// POST /api/usuarios/login?username=&password=.
func (s *SyncUpService) Login(ctx context.Context, username, password string) (string, error) {
	query := url.Values{"username": {username}, "password": {password}}

	var resp struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}
	if err := s.do(ctx, s.plainClient, http.MethodPost, "/api/usuarios/login", query, nil, &resp); err != nil {
		return "", err
	}

	if resp.Token == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.Error)
		}
		return "", shared.ErrAuthFailed
	}
	return resp.Token, nil
}

// Register creates an account via
// POST /api/usuarios/registrar?username=&password=&nombre=.
// The server answers with plain confirmation text, 409 on duplicates.
func (s *SyncUpService) Register(ctx context.Context, username, password, name string) (string, error) {
	query := url.Values{"username": {username}, "password": {password}, "nombre": {name}}

	var buf bytes.Buffer
	if err := s.do(ctx, s.plainClient, http.MethodPost, "/api/usuarios/registrar", query, nil, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Logout invalidates the session server-side via POST /api/usuarios/logout.
func (s *SyncUpService) Logout(ctx context.Context) error {
	return s.post(ctx, "/api/usuarios/logout", nil, nil, nil)
}

// Session fetches the current profile via GET /api/usuarios/sesion.
func (s *SyncUpService) Session(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := s.get(ctx, "/api/usuarios/sesion", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ---- Catalog ----

func (s *SyncUpService) Songs(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	if err := s.get(ctx, "/api/canciones", nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (s *SyncUpService) Song(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := s.get(ctx, "/api/canciones/"+url.PathEscape(id), nil, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Search queries a single field via GET /api/canciones/buscar?<field>=.
func (s *SyncUpService) Search(ctx context.Context, field, value string) ([]models.Song, error) {
	var songs []models.Song
	if err := s.get(ctx, "/api/canciones/buscar", url.Values{field: {value}}, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// SearchAll merges title, genre and artist searches for one query string.
// Artist matching rides the advanced endpoint since the simple one only
// covers title and genre.
func (s *SyncUpService) SearchAll(ctx context.Context, query string) ([]models.Song, error) {
	var (
		merged   []models.Song
		seen     = map[string]bool{}
		failures int
		lastErr  error
	)

	lists := [][]models.Song{}
	for _, fetch := range []func() ([]models.Song, error){
		func() ([]models.Song, error) { return s.Search(ctx, "titulo", query) },
		func() ([]models.Song, error) { return s.Search(ctx, "genero", query) },
		func() ([]models.Song, error) {
			return s.SearchAdvanced(ctx, AdvancedQuery{Artist: query, Op: "OR"})
		},
	} {
		songs, err := fetch()
		if err != nil {
			failures++
			lastErr = err
			continue
		}
		lists = append(lists, songs)
	}

	if failures == 3 {
		return nil, lastErr
	}

	for _, list := range lists {
		for _, song := range list {
			if seen[song.ID] {
				continue
			}
			seen[song.ID] = true
			merged = append(merged, song)
		}
	}
	return merged, nil
}

// SearchAdvanced queries GET /api/canciones/buscar/avanzado with the
// non-zero fields of query.
func (s *SyncUpService) SearchAdvanced(ctx context.Context, q AdvancedQuery) ([]models.Song, error) {
	query := url.Values{}
	if q.Title != "" {
		query.Set("titulo", q.Title)
	}
	if q.Artist != "" {
		query.Set("artista", q.Artist)
	}
	if q.Genre != "" {
		query.Set("genero", q.Genre)
	}
	if q.YearFrom != 0 {
		query.Set("anioFrom", strconv.Itoa(q.YearFrom))
	}
	if q.YearTo != 0 {
		query.Set("anioTo", strconv.Itoa(q.YearTo))
	}
	if q.Op != "" {
		query.Set("op", q.Op)
	}

	var songs []models.Song
	if err := s.get(ctx, "/api/canciones/buscar/avanzado", query, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// Autocomplete queries GET /api/canciones/autocompletar?prefijo=.
func (s *SyncUpService) Autocomplete(ctx context.Context, prefix string) ([]string, error) {
	var suggestions []string
	if err := s.get(ctx, "/api/canciones/autocompletar", url.Values{"prefijo": {prefix}}, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Similar queries GET /api/canciones/{id}/similares?limite=.
func (s *SyncUpService) Similar(ctx context.Context, id string, limit int) ([]models.Song, error) {
	path := "/api/canciones/" + url.PathEscape(id) + "/similares"
	var songs []models.Song
	if err := s.get(ctx, path, url.Values{"limite": {strconv.Itoa(limit)}}, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// Radio queries GET /api/canciones/{id}/radio?limite= for a seeded queue.
func (s *SyncUpService) Radio(ctx context.Context, id string, limit int) ([]models.Song, error) {
	path := "/api/canciones/" + url.PathEscape(id) + "/radio"
	var songs []models.Song
	if err := s.get(ctx, path, url.Values{"limite": {strconv.Itoa(limit)}}, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// ---- Library ----

func (s *SyncUpService) Favorites(ctx context.Context, username string) ([]models.Song, error) {
	var songs []models.Song
	if err := s.get(ctx, "/api/usuarios/"+url.PathEscape(username)+"/favoritos", nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (s *SyncUpService) AddFavorite(ctx context.Context, username, songID string) error {
	path := "/api/usuarios/" + url.PathEscape(username) + "/favoritos/agregar"
	return s.post(ctx, path, url.Values{"idCancion": {songID}}, nil, nil)
}

func (s *SyncUpService) RemoveFavorite(ctx context.Context, username, songID string) error {
	path := "/api/usuarios/" + url.PathEscape(username) + "/favoritos/eliminar"
	return s.delete(ctx, path, url.Values{"idCancion": {songID}}, nil)
}

// ExportFavorites downloads the server-rendered favorites CSV.
func (s *SyncUpService) ExportFavorites(ctx context.Context, username string) ([]byte, error) {
	var buf bytes.Buffer
	path := "/api/usuarios/" + url.PathEscape(username) + "/favoritos/export"
	if err := s.get(ctx, path, nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Discovery queries GET /api/usuarios/{username}/descubrimiento?size=.
func (s *SyncUpService) Discovery(ctx context.Context, username string, size int) ([]models.Song, error) {
	path := "/api/usuarios/" + url.PathEscape(username) + "/descubrimiento"
	var songs []models.Song
	if err := s.get(ctx, path, url.Values{"size": {strconv.Itoa(size)}}, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// ---- Profile updates ----

// UpdateName changes the display name via
// PUT /api/usuarios/{username}/actualizar-nombre?nuevoNombre=.
func (s *SyncUpService) UpdateName(ctx context.Context, username, newName string) (string, error) {
	path := "/api/usuarios/" + url.PathEscape(username) + "/actualizar-nombre"
	var buf bytes.Buffer
	if err := s.put(ctx, path, url.Values{"nuevoNombre": {newName}}, &buf); err != nil {
		return "", err
	}
	return messageText(buf.Bytes()), nil
}

// ChangePassword sets a new password via
// PUT /api/usuarios/{username}/cambiar-password?nuevaPassword=.
func (s *SyncUpService) ChangePassword(ctx context.Context, username, newPassword string) (string, error) {
	path := "/api/usuarios/" + url.PathEscape(username) + "/cambiar-password"
	var buf bytes.Buffer
	if err := s.put(ctx, path, url.Values{"nuevaPassword": {newPassword}}, &buf); err != nil {
		return "", err
	}
	return messageText(buf.Bytes()), nil
}

// messageText unwraps {"mensaje": ...} envelopes, falling back to raw text.
func messageText(data []byte) string {
	var envelope apiError
	if err := json.Unmarshal(data, &envelope); err == nil {
		if text := envelope.text(); text != "" {
			return text
		}
	}
	return string(bytes.TrimSpace(data))
}

// ---- Social ----

// Follow adds target to follower's follow set via POST /api/usuarios/seguir.
func (s *SyncUpService) Follow(ctx context.Context, follower, target string) (string, error) {
	body := map[string]string{"username": follower, "destino": target}
	var resp apiError
	if err := s.post(ctx, "/api/usuarios/seguir", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.text(), nil
}

// Unfollow removes target via POST /api/usuarios/dejar-seguir.
func (s *SyncUpService) Unfollow(ctx context.Context, follower, target string) (string, error) {
	body := map[string]string{"username": follower, "destino": target}
	var resp apiError
	if err := s.post(ctx, "/api/usuarios/dejar-seguir", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.text(), nil
}

// Following queries GET /api/usuarios/{username}/seguidos.
func (s *SyncUpService) Following(ctx context.Context, username string) ([]string, error) {
	var followed []string
	if err := s.get(ctx, "/api/usuarios/"+url.PathEscape(username)+"/seguidos", nil, &followed); err != nil {
		return nil, err
	}
	return followed, nil
}

// SuggestUsers queries POST /api/usuarios/{username}/sugerir-usuarios?limite=.
// A 204 response means no suggestions and yields an empty list.
func (s *SyncUpService) SuggestUsers(ctx context.Context, username string, limit int) ([]string, error) {
	path := "/api/usuarios/" + url.PathEscape(username) + "/sugerir-usuarios"
	var suggestions []string
	if err := s.post(ctx, path, url.Values{"limite": {strconv.Itoa(limit)}}, nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// ---- Admin ----

func (s *SyncUpService) CreateSong(ctx context.Context, input models.SongInput) (*models.Song, error) {
	var song models.Song
	if err := s.post(ctx, "/api/canciones", nil, input, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SyncUpService) UpdateSong(ctx context.Context, id string, input models.SongInput) (*models.Song, error) {
	var song models.Song
	err := s.do(ctx, s.authClient, http.MethodPut, "/api/canciones/"+url.PathEscape(id), nil, input, &song)
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SyncUpService) DeleteSong(ctx context.Context, id string) error {
	return s.delete(ctx, "/api/canciones/"+url.PathEscape(id), nil, nil)
}

func (s *SyncUpService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	var users []models.Profile
	if err := s.get(ctx, "/api/usuarios/listar", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account via DELETE /api/usuarios/eliminar?username=.
// The call aborts after [userDeleteTimeout].
func (s *SyncUpService) DeleteUser(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, userDeleteTimeout)
	defer cancel()

	return s.delete(ctx, "/api/usuarios/eliminar", url.Values{"username": {username}}, nil)
}

// ---- Metrics ----

func (s *SyncUpService) DownloadsPerDay(ctx context.Context) (map[string]int64, error) {
	var data map[string]int64
	if err := s.get(ctx, "/api/metricas/descargas-favoritos/dia", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SyncUpService) TopExporters(ctx context.Context, limit int) ([]models.TopUser, error) {
	var users []models.TopUser
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := s.get(ctx, "/api/metricas/usuarios/top-exportadores", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SyncUpService) TopArtists(ctx context.Context, limit int) (map[string]int64, error) {
	var data map[string]int64
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := s.get(ctx, "/api/metricas/favoritos/top-artistas", query, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SyncUpService) TopGenres(ctx context.Context, limit int) (map[string]int64, error) {
	var data map[string]int64
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := s.get(ctx, "/api/metricas/favoritos/top-generos", query, &data); err != nil {
		return nil, err
	}
	return data, nil
}
