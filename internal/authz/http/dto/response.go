package dto

import (
	"time"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// PolicyResponse represents a stored policy in API responses.
type PolicyResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Requirements []RequirementSpecRequest `json:"requirements"`
	Schemes      []string                 `json:"schemes,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// MapPolicyToResponse converts a stored policy to an API response.
func MapPolicyToResponse(policy *authzDomain.StoredPolicy) PolicyResponse {
	specs := make([]RequirementSpecRequest, 0, len(policy.Document.Requirements))
	for _, spec := range policy.Document.Requirements {
		specs = append(specs, RequirementSpecRequest{
			Kind:      spec.Kind,
			ClaimType: spec.ClaimType,
			Values:    spec.Values,
			Roles:     spec.Roles,
		})
	}
	return PolicyResponse{
		ID:           policy.ID.String(),
		Name:         policy.Name,
		Requirements: specs,
		Schemes:      policy.Document.Schemes,
		CreatedAt:    policy.CreatedAt,
	}
}

// ListPoliciesResponse represents a paginated list of policies in API responses.
type ListPoliciesResponse struct {
	Data []PolicyResponse `json:"data"`
}

// MapPoliciesToListResponse converts a slice of stored policies to a list API response.
func MapPoliciesToListResponse(policies []*authzDomain.StoredPolicy) ListPoliciesResponse {
	policyResponses := make([]PolicyResponse, 0, len(policies))
	for _, policy := range policies {
		policyResponses = append(policyResponses, MapPolicyToResponse(policy))
	}
	return ListPoliciesResponse{
		Data: policyResponses,
	}
}
