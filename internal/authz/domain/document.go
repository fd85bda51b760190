package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// Requirement kinds representable in a stored policy document. Assertion
// requirements hold code and therefore exist only in policies built in-process.
const (
	RequirementKindAuthenticatedUser = "authenticated_user"
	RequirementKindClaim             = "claim"
	RequirementKindRole              = "role"
)

// RequirementSpec is the storable form of a single requirement.
type RequirementSpec struct {
	Kind      string   `json:"kind"`
	ClaimType string   `json:"claim_type,omitempty"`
	Values    []string `json:"values,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// PolicyDocument is the storable form of a policy: requirement specs plus
// accepted authentication schemes.
type PolicyDocument struct {
	Requirements []RequirementSpec `json:"requirements"`
	Schemes      []string          `json:"schemes,omitempty"`
}

// Compile turns the document into an immutable Policy with the given name.
// Returns ErrInvalidInput for unknown or incomplete requirement specs.
func (d *PolicyDocument) Compile(name string) (*Policy, error) {
	builder := NewPolicyBuilder(name)
	for i, spec := range d.Requirements {
		switch spec.Kind {
		case RequirementKindAuthenticatedUser:
			builder.RequireAuthenticatedUser()
		case RequirementKindClaim:
			if spec.ClaimType == "" {
				return nil, apperrors.Wrap(
					apperrors.ErrInvalidInput,
					fmt.Sprintf("requirement %d: claim requirement needs a claim_type", i),
				)
			}
			builder.RequireClaim(spec.ClaimType, spec.Values...)
		case RequirementKindRole:
			if len(spec.Roles) == 0 {
				return nil, apperrors.Wrap(
					apperrors.ErrInvalidInput,
					fmt.Sprintf("requirement %d: role requirement needs at least one role", i),
				)
			}
			builder.RequireRole(spec.Roles...)
		default:
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("requirement %d: unknown kind %q", i, spec.Kind),
			)
		}
	}
	builder.AddSchemes(d.Schemes...)
	return builder.Build(), nil
}

// StoredPolicy is a policy as persisted by the policy repository.
type StoredPolicy struct {
	ID        uuid.UUID
	Name      string
	Document  PolicyDocument
	CreatedAt time.Time
}

// Compile builds the runtime policy from the stored document.
func (sp *StoredPolicy) Compile() (*Policy, error) {
	return sp.Document.Compile(sp.Name)
}

// CreatePolicyInput contains the parameters for storing a new policy.
type CreatePolicyInput struct {
	Name     string
	Document PolicyDocument
}
