package session

import (
	"net/http"

	"github.com/syncup-music/syncup/internal/shared"
	"golang.org/x/oauth2"
)

// TokenSource adapts the store to [oauth2.TokenSource] so HTTP clients pick
// up the current bearer token on every request.
type TokenSource struct {
	store *Store
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

// TokenSource returns an [oauth2.TokenSource] view of the store.
func (s *Store) TokenSource() *TokenSource {
	return &TokenSource{store: s}
}

// Token returns the active token as a bearer [oauth2.Token].
// Returns [shared.ErrNotAuthenticated] when no valid token is stored.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	token := t.store.GetActiveToken()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// Client wraps base with an [oauth2.Transport] fed by the store.
//
// The transport is used directly rather than through [oauth2.NewClient]
// because the reuse wrapper would cache the first token indefinitely;
// identity must be re-derived from storage per request.
func (s *Store) Client(base http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: s.TokenSource(),
			Base:   base,
		},
	}
}
