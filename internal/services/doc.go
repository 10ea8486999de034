// Package services defines the client-side interfaces for the SyncUp
// streaming API and implements them against its HTTP surface.
//
// # Interfaces
//
// The API surface is split along feature lines so callers depend only on
// what they use:
//   - [Authenticator] : login, registration, logout, session profile
//   - [Catalog] : catalog reads, search (simple, merged, advanced),
//     autocomplete, similarity and radio queues
//   - [Library] : per-user favorites, CSV export, discovery feed
//   - [ProfileManager] : display name and password updates
//   - [Social] : follow graph and user suggestions
//   - [Admin] : catalog writes, user management, metrics dashboard
//
// [SyncUpService] implements all of them against one base URL.
//
// # Authorization
//
// Authenticated calls go through an [http.Client] whose transport reads the
// bearer token from the session store on every request, so slot changes and
// evictions take effect immediately. Login and Register bypass that
// transport; they run before any token exists.
//
// # Rate Limiting
//
// All requests pass through a shared [rate.Limiter] configured from the API
// section of the config file.
//
// # Error Handling
//
// Non-2xx responses map to typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : 401, or no token in the session store
//   - [shared.ErrNotAuthorized] : 403, admin-only operation
//   - [shared.ErrAuthFailed] : login succeeded at HTTP level but no token
//   - [shared.ErrAPIRequest] : transport failures and other statuses
//
// The server's message is preserved in the wrapped error, whether it arrives
// as a JSON envelope (error, message or mensaje keys) or plain text.
package services
