package service

import (
	"encoding/json"
	"sort"

	"github.com/allisson/go-pwdhash"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// APIKeyEntry is one configured API key: a display name, the Argon2id hash of
// the key material, and the roles and claims granted to callers presenting it.
type APIKeyEntry struct {
	Name    string            `json:"name"`
	KeyHash string            `json:"key_hash"`
	Roles   []string          `json:"roles,omitempty"`
	Claims  map[string]string `json:"claims,omitempty"`
}

// APIKeyAuthenticator verifies presented API keys against configured entries.
type APIKeyAuthenticator interface {
	// Authenticate verifies the plain key against every configured entry and
	// returns an authenticated principal carrying the matching entry's roles
	// and claims. Returns ErrInvalidCredentials when no entry matches.
	Authenticate(plainKey string, scheme string) (*authzDomain.Principal, error)
}

// apiKeyAuthenticator implements APIKeyAuthenticator using Argon2id hashing.
type apiKeyAuthenticator struct {
	entries []APIKeyEntry
	hasher  *pwdhash.PasswordHasher
}

// Authenticate implements APIKeyAuthenticator.
func (a *apiKeyAuthenticator) Authenticate(plainKey string, scheme string) (*authzDomain.Principal, error) {
	if plainKey == "" {
		return nil, authzDomain.ErrInvalidCredentials
	}

	for _, entry := range a.entries {
		ok, err := a.hasher.Verify([]byte(plainKey), entry.KeyHash)
		if err != nil || !ok {
			continue
		}
		return a.principalFor(entry, scheme), nil
	}

	return nil, authzDomain.ErrInvalidCredentials
}

func (a *apiKeyAuthenticator) principalFor(entry APIKeyEntry, scheme string) *authzDomain.Principal {
	claims := []authzDomain.Claim{
		{Type: "name", Value: entry.Name},
	}
	for _, role := range entry.Roles {
		claims = append(claims, authzDomain.Claim{Type: authzDomain.RoleClaimType, Value: role})
	}

	// Map iteration order is random, sort for a stable claim order.
	claimTypes := make([]string, 0, len(entry.Claims))
	for claimType := range entry.Claims {
		claimTypes = append(claimTypes, claimType)
	}
	sort.Strings(claimTypes)
	for _, claimType := range claimTypes {
		claims = append(claims, authzDomain.Claim{Type: claimType, Value: entry.Claims[claimType]})
	}

	return authzDomain.NewPrincipal(&authzDomain.Identity{
		Scheme:        scheme,
		Authenticated: true,
		Claims:        claims,
	})
}

// NewAPIKeyAuthenticator creates an APIKeyAuthenticator from a JSON array of
// key entries. Returns ErrInvalidInput when the JSON is malformed or an entry
// lacks a key hash. An empty configuration is valid and rejects every key.
func NewAPIKeyAuthenticator(entriesJSON string) (APIKeyAuthenticator, error) {
	var entries []APIKeyEntry
	if entriesJSON != "" {
		if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to parse api key entries")
		}
	}
	for _, entry := range entries {
		if entry.KeyHash == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "api key entry without key_hash")
		}
	}

	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &apiKeyAuthenticator{
		entries: entries,
		hasher:  hasher,
	}, nil
}
