// Package domain defines the authorization domain model: principals, policies,
// requirements and the evaluation context they run against.
//
// A Principal carries one identity per authentication scheme that produced it.
// Policies are built once, immutable afterwards, and safe for concurrent reads.
package domain

import (
	"slices"
	"strings"
)

// RoleClaimType is the claim type that carries role membership.
const RoleClaimType = "role"

// Claim is a typed key/value fact attached to an identity
// (e.g., type "Permission", value "CanViewPage").
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Identity represents identity information produced by a single authentication
// scheme. An identity with Authenticated set to false is an anonymous identity.
type Identity struct {
	Scheme        string
	Authenticated bool
	Claims        []Claim
}

// HasClaim reports whether the identity carries a claim of the given type.
// Claim types compare case-insensitively, claim values compare exact.
// With an empty values list any claim of the type matches.
func (i *Identity) HasClaim(claimType string, values []string) bool {
	for _, claim := range i.Claims {
		if !strings.EqualFold(claim.Type, claimType) {
			continue
		}
		if len(values) == 0 {
			return true
		}
		if slices.Contains(values, claim.Value) {
			return true
		}
	}
	return false
}

// Principal is the authenticated-or-not identity information for the current
// request, possibly composed of multiple identities from different schemes.
type Principal struct {
	Identities []*Identity
}

// NewPrincipal creates a principal from the given identities.
func NewPrincipal(identities ...*Identity) *Principal {
	return &Principal{Identities: identities}
}

// NewAnonymousPrincipal creates a principal holding a single unauthenticated
// identity. Used wherever a non-nil principal is required but authentication
// did not happen or failed.
func NewAnonymousPrincipal() *Principal {
	return &Principal{Identities: []*Identity{{}}}
}

// IsAuthenticated reports whether at least one identity is authenticated.
func (p *Principal) IsAuthenticated() bool {
	for _, identity := range p.Identities {
		if identity.Authenticated {
			return true
		}
	}
	return false
}

// HasClaim reports whether any identity carries a matching claim.
func (p *Principal) HasClaim(claimType string, values []string) bool {
	for _, identity := range p.Identities {
		if identity.HasClaim(claimType, values) {
			return true
		}
	}
	return false
}

// HasRole reports whether any identity holds a role claim equal to one of the
// given role names.
func (p *Principal) HasRole(roles []string) bool {
	return p.HasClaim(RoleClaimType, roles)
}

// Merge returns a new principal combining the identities of both principals.
// Neither input is modified.
func (p *Principal) Merge(other *Principal) *Principal {
	if other == nil || len(other.Identities) == 0 {
		return NewPrincipal(slices.Clone(p.Identities)...)
	}
	identities := make([]*Identity, 0, len(p.Identities)+len(other.Identities))
	identities = append(identities, p.Identities...)
	identities = append(identities, other.Identities...)
	return NewPrincipal(identities...)
}
