// Package http provides the authorization middleware, the policy admin
// handlers, and their supporting utilities.
package http

import (
	"context"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	"github.com/allisson/gatekeeper/internal/endpoint"
)

// principalKey is a context key type for storing the request principal.
type principalKey struct{}

// endpointKey is a context key type for storing the routed endpoint.
type endpointKey struct{}

// WithPrincipal stores the request principal in the context. Called by the
// authorization middleware for every request, authenticated or not.
func WithPrincipal(ctx context.Context, principal *authzDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the request principal from the context.
// Returns (principal, true) if present, or (nil, false) if not set.
func GetPrincipal(ctx context.Context) (*authzDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authzDomain.Principal)
	return principal, ok
}

// WithEndpoint stores the routed endpoint in the context. Called during
// route registration so the middleware can read the endpoint's metadata.
func WithEndpoint(ctx context.Context, ep *endpoint.Endpoint) context.Context {
	return context.WithValue(ctx, endpointKey{}, ep)
}

// GetEndpoint retrieves the routed endpoint from the context.
// Returns (endpoint, true) if present, or (nil, false) if not set.
func GetEndpoint(ctx context.Context) (*endpoint.Endpoint, bool) {
	ep, ok := ctx.Value(endpointKey{}).(*endpoint.Endpoint)
	return ep, ok
}
