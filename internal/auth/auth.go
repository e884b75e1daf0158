package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Role names a permission level.
type Role string

const (
	// RoleAdmin manages settings, notes and webhook sends.
	RoleAdmin Role = "admin"
	// RoleDevice is an espresso machine or viewer that records and reads shots.
	RoleDevice Role = "device"
)

// Auth enforces both API-key and OIDC/JWT based authentication
type Auth struct {
	AdminKey     string
	DeviceKey    string
	OIDCEnabled  bool
	OIDCVerifier *OIDCVerifier
}

// RequireAdmin only admits admin credentials.
func (a Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.require(RoleAdmin, next)
}

// RequireDevice admits device credentials, and admin credentials as well.
func (a Auth) RequireDevice(next http.HandlerFunc) http.HandlerFunc {
	return a.require(RoleDevice, next)
}

func (a Auth) require(role Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if method, ok := a.authenticate(r, role); ok {
			log.Debug().
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Str("auth_type", method).
				Str("role", string(role)).
				Msg("Authentication successful")
			next(w, r)
			return
		}

		log.Warn().
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Str("remote_addr", r.RemoteAddr).
			Str("role", string(role)).
			Msg("Authentication failed")
		http.Error(w, "unauthorized ("+string(role)+")", http.StatusUnauthorized)
	}
}

func (a Auth) authenticate(r *http.Request, role Role) (string, bool) {
	// If OIDC is enabled, try JWT first, then fall back to API key
	if a.OIDCEnabled && a.OIDCVerifier != nil && a.verifyJWT(r, role) {
		return "jwt", true
	}

	if keyMatches(a.AdminKey, r.Header.Get("X-Admin-Key")) {
		return "api_key", true
	}
	if role == RoleDevice && keyMatches(a.DeviceKey, r.Header.Get("X-Device-Key")) {
		return "api_key", true
	}
	return "", false
}

// verifyJWT validates the bearer token and checks the role claim.
func (a Auth) verifyJWT(r *http.Request, role Role) bool {
	token := ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return false
	}

	idToken, err := a.OIDCVerifier.VerifyToken(r.Context(), token)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("JWT verification failed")
		return false
	}

	required := a.OIDCVerifier.RoleFor(role)
	if required == "" {
		return true
	}
	if role == RoleDevice {
		if ok, _ := a.OIDCVerifier.HasRole(idToken, a.OIDCVerifier.RoleFor(RoleAdmin)); ok {
			return true
		}
	}

	hasRole, err := a.OIDCVerifier.HasRole(idToken, required)
	if err != nil {
		log.Error().
			Err(err).
			Str("required_role", required).
			Msg("Failed to check role in JWT")
		return false
	}
	if !hasRole {
		log.Warn().
			Str("required_role", required).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("User missing required role")
	}
	return hasRole
}

func keyMatches(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// ExtractBearerToken is a helper to extract Bearer token from Authorization header
func ExtractBearerToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
