package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the read-only projection of the active token's claims.
//
// It is derived on demand and never cached beyond a single lookup, because
// the underlying token can change outside the application's control.
type Identity struct {
	Username string
	Role     string
}

// Admin reports whether the identity's role claim classifies as admin.
func (id Identity) Admin() bool {
	return IsAdmin(id.Role)
}

// Empty reports whether no identity could be derived.
func (id Identity) Empty() bool {
	return id.Username == "" && id.Role == ""
}

// decodeClaims parses the payload segment of a compact token.
//
// The segment is decoded as URL-safe base64 by replacing the two URL-safe
// characters before generic decoding, tolerating missing padding. The API
// issues standard JWTs but claim shapes vary across its code paths, so the
// payload lands in a permissive [jwt.MapClaims].
func decodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, jwt.ErrTokenMalformed
	}

	payload := strings.NewReplacer("-", "+", "_", "/").Replace(parts[1])
	if n := len(payload) % 4; n != 0 {
		payload += strings.Repeat("=", 4-n)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, jwt.ErrTokenMalformed
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, jwt.ErrTokenMalformed
	}

	return claims, nil
}

// DecodeIdentity derives username and role from a token's payload claims.
//
// Username comes from the "sub" or "username" claim, role from "rol" or
// "role" (string or array). Returns the zero Identity on any parse failure;
// a garbled or absent token is a normal case, not an error.
func DecodeIdentity(token string) Identity {
	claims, err := decodeClaims(token)
	if err != nil {
		return Identity{}
	}

	var id Identity
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		id.Username = sub
	} else if username, ok := claims["username"].(string); ok {
		id.Username = username
	}

	id.Role = roleClaim(claims)
	return id
}

// roleClaim extracts the role claim under its varying key names and shapes.
func roleClaim(claims jwt.MapClaims) string {
	raw, ok := claims["rol"]
	if !ok {
		raw, ok = claims["role"]
	}
	if !ok {
		return ""
	}

	switch v := raw.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// IsValid reports whether a token is well-formed and unexpired.
//
// A token is valid when it has exactly three dot-separated segments, its
// payload decodes as JSON, and any "exp" claim lies strictly in the future.
// A token without an expiry claim never expires client-side; the server
// remains the authority and rejects anything it no longer honors.
func IsValid(token string) bool {
	claims, err := decodeClaims(token)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}

	return time.Now().Before(exp.Time)
}

// IsAdmin reports whether a role claim value grants admin privileges.
//
// Matching is case-insensitive substring containment against "ADMIN", so
// "admin", "ROLE_ADMIN" and ["ROLE_ADMIN"] all qualify. The API is not
// consistent about the claim shape, so matching stays permissive.
func IsAdmin(role any) bool {
	switch v := role.(type) {
	case string:
		return strings.Contains(strings.ToUpper(v), "ADMIN")
	case []string:
		for _, item := range v {
			if IsAdmin(item) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if IsAdmin(item) {
				return true
			}
		}
	}
	return false
}
