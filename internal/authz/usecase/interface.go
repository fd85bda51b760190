// Package usecase defines business logic interfaces for policy management and
// policy resolution.
package usecase

import (
	"context"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// PolicyRepository defines persistence operations for stored policies.
type PolicyRepository interface {
	// Create stores a new policy. Returns ErrConflict when a policy with the
	// same name exists.
	Create(ctx context.Context, policy *authzDomain.StoredPolicy) error

	// Get retrieves a policy by name. Returns ErrPolicyNotFound if not found.
	Get(ctx context.Context, name string) (*authzDomain.StoredPolicy, error)

	// List retrieves policies ordered by name with pagination support.
	List(ctx context.Context, offset, limit int) ([]*authzDomain.StoredPolicy, error)

	// Delete removes a policy by name. Returns ErrPolicyNotFound if not found.
	Delete(ctx context.Context, name string) error
}

// PolicyUseCase defines business logic operations for managing stored policies.
type PolicyUseCase interface {
	// Create validates and stores a new policy. The document is compiled once
	// to reject invalid requirement specs before persisting.
	Create(ctx context.Context, input *authzDomain.CreatePolicyInput) (*authzDomain.StoredPolicy, error)

	// Get retrieves a policy by name. Returns ErrPolicyNotFound if not found.
	Get(ctx context.Context, name string) (*authzDomain.StoredPolicy, error)

	// List retrieves policies ordered by name with pagination support.
	List(ctx context.Context, offset, limit int) ([]*authzDomain.StoredPolicy, error)

	// Delete removes a policy by name. Returns ErrPolicyNotFound if not found.
	Delete(ctx context.Context, name string) error
}

// PolicyProvider resolves policy names referenced by endpoint metadata into
// runtime policies. The authorization middleware consults it once per
// reference on every request, so lookups must be side effect free.
type PolicyProvider interface {
	// GetPolicy resolves a named policy. Returns ErrPolicyRefNotFound when the
	// name does not resolve; callers must treat that as a configuration error,
	// never as an allow.
	GetPolicy(ctx context.Context, name string) (*authzDomain.Policy, error)

	// GetDefaultPolicy returns the policy applied to endpoints without an
	// explicit authorization marker, or nil when no default is configured.
	GetDefaultPolicy(ctx context.Context) (*authzDomain.Policy, error)
}
