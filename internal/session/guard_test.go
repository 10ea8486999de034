package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		assert.Equal(t, RouteLogin, Resolve(Unauthenticated, RouteHome))
		assert.Equal(t, RouteLogin, Resolve(Unauthenticated, RouteFavorites))
		assert.Equal(t, RouteLogin, Resolve(Unauthenticated, RouteAdminUsers))
		assert.Equal(t, RouteLogin, Resolve(Unauthenticated, RouteUnknown))
		assert.Equal(t, RouteLogin, Resolve(Unauthenticated, RouteLogin))
		assert.Equal(t, RouteRegister, Resolve(Unauthenticated, RouteRegister))
	})

	t.Run("authenticated", func(t *testing.T) {
		assert.Equal(t, RouteHome, Resolve(Authenticated, RouteHome))
		assert.Equal(t, RouteSearch, Resolve(Authenticated, RouteSearch))

		// Admin-only routes redirect to home, never rendered.
		assert.Equal(t, RouteHome, Resolve(Authenticated, RouteAdminSongs))
		assert.Equal(t, RouteHome, Resolve(Authenticated, RouteMetrics))

		// A live session cannot revisit the login view.
		assert.Equal(t, RouteHome, Resolve(Authenticated, RouteLogin))
		assert.Equal(t, RouteHome, Resolve(Authenticated, RouteUnknown))
	})

	t.Run("admin", func(t *testing.T) {
		assert.Equal(t, RouteAdminSongs, Resolve(AuthenticatedAdmin, RouteAdminSongs))
		assert.Equal(t, RouteAdminUsers, Resolve(AuthenticatedAdmin, RouteAdminUsers))
		assert.Equal(t, RouteMetrics, Resolve(AuthenticatedAdmin, RouteMetrics))
		assert.Equal(t, RouteHome, Resolve(AuthenticatedAdmin, RouteLogin))
		assert.Equal(t, RouteHome, Resolve(AuthenticatedAdmin, RouteUnknown))
		assert.Equal(t, RouteFavorites, Resolve(AuthenticatedAdmin, RouteFavorites))
	})
}

func TestStoreGuard(t *testing.T) {
	t.Run("admin token renders admin views", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(SlotAdmin, adminPayloadToken))
		store := NewStore(storage)

		assert.Equal(t, AuthenticatedAdmin, store.State())
		assert.Equal(t, RouteAdminSongs, store.Resolve(RouteAdminSongs))
		assert.Equal(t, RouteHome, store.Resolve(RouteLogin))
	})

	t.Run("user token is gated off admin views", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(SlotUser, userToken(t)))
		store := NewStore(storage)

		assert.Equal(t, Authenticated, store.State())
		assert.Equal(t, RouteHome, store.Resolve(RouteAdminUsers))
	})

	t.Run("expired token behaves like no token", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(SlotUser, expiredToken(t)))
		store := NewStore(storage)

		assert.Equal(t, Unauthenticated, store.State())
		assert.Equal(t, RouteLogin, store.Resolve(RouteHome))

		_, ok := storage.Get(SlotUser)
		assert.False(t, ok, "stale slot should have been cleared by the check")
	})

	t.Run("state is recomputed per navigation", func(t *testing.T) {
		storage := NewMemoryStorage()
		store := NewStore(storage)
		assert.Equal(t, Unauthenticated, store.State())

		// Out-of-band write, as another process would do.
		require.NoError(t, storage.Set(SlotUser, userToken(t)))
		assert.Equal(t, Authenticated, store.State())

		require.NoError(t, storage.Delete(SlotUser))
		assert.Equal(t, Unauthenticated, store.State())
	})
}
