package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier validates ID tokens against an issuer and reads role claims.
type OIDCVerifier struct {
	verifier   *oidc.IDTokenVerifier
	adminRole  string
	deviceRole string
}

// NewOIDCVerifier performs issuer discovery. audience overrides clientID when set.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID, audience, adminRole, deviceRole string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %q: %w", issuerURL, err)
	}

	expected := clientID
	if audience != "" {
		expected = audience
	}
	cfg := &oidc.Config{ClientID: expected}
	if expected == "" {
		cfg.SkipClientIDCheck = true
	}

	return &OIDCVerifier{
		verifier:   provider.Verifier(cfg),
		adminRole:  adminRole,
		deviceRole: deviceRole,
	}, nil
}

func (v *OIDCVerifier) VerifyToken(ctx context.Context, raw string) (*oidc.IDToken, error) {
	return v.verifier.Verify(ctx, raw)
}

// RoleFor maps an application role to the configured claim value.
func (v *OIDCVerifier) RoleFor(role Role) string {
	if role == RoleAdmin {
		return v.adminRole
	}
	return v.deviceRole
}

type roleClaims struct {
	Roles       []string `json:"roles"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// HasRole looks in top-level "roles" and Keycloak's "realm_access.roles".
func (v *OIDCVerifier) HasRole(token *oidc.IDToken, role string) (bool, error) {
	if role == "" {
		return false, nil
	}
	var claims roleClaims
	if err := token.Claims(&claims); err != nil {
		return false, fmt.Errorf("decode role claims: %w", err)
	}
	return containsRole(claims.Roles, role) || containsRole(claims.RealmAccess.Roles, role), nil
}

func containsRole(list []string, role string) bool {
	for _, r := range list {
		if r == role {
			return true
		}
	}
	return false
}
