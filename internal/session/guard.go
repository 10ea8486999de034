package session

// State classifies the current session for navigation decisions.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "unauthenticated"
	}
}

// Route identifies a navigable view.
type Route int

const (
	RouteUnknown Route = iota
	RouteLogin
	RouteRegister
	RouteHome
	RouteSearch
	RouteFavorites
	RouteRadio
	RouteSocial
	RouteProfile
	RouteAdminSongs
	RouteAdminUsers
	RouteMetrics
)

// AdminOnly reports whether the route requires an admin session.
func (r Route) AdminOnly() bool {
	switch r {
	case RouteAdminSongs, RouteAdminUsers, RouteMetrics:
		return true
	}
	return false
}

// Public reports whether the route renders without a session.
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteRegister
}

// State derives the guard state from current storage contents.
//
// There is no persistent state machine: each call re-reads the slots, so a
// token removed by another process demotes the state on the next check.
func (s *Store) State() State {
	token := s.GetActiveToken()
	if token == "" {
		return Unauthenticated
	}
	if DecodeIdentity(token).Admin() {
		return AuthenticatedAdmin
	}
	return Authenticated
}

// Resolve maps a requested route to the route that should actually render
// given the session state. The requested route renders iff the result equals
// it; anything else is a redirect.
//
//   - no session: protected routes fall back to the login view
//   - non-admin session: admin routes fall back to home, never rendered
//   - any session: the login view redirects to home while a token is live
//   - unknown routes: login when signed out, home otherwise
func Resolve(state State, route Route) Route {
	switch state {
	case Unauthenticated:
		if route.Public() {
			return route
		}
		return RouteLogin

	case Authenticated:
		if route == RouteLogin || route == RouteUnknown || route.AdminOnly() {
			return RouteHome
		}
		return route

	case AuthenticatedAdmin:
		if route == RouteLogin || route == RouteUnknown {
			return RouteHome
		}
		return route
	}

	return RouteLogin
}

// Resolve evaluates the route guard against the store's current state.
func (s *Store) Resolve(route Route) Route {
	return Resolve(s.State(), route)
}
