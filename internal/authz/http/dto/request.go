// Package dto provides data transfer objects for the policy admin API.
package dto

import (
	validation "github.com/jellydator/validation"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// RequirementSpecRequest is one requirement inside a policy document request.
type RequirementSpecRequest struct {
	Kind      string   `json:"kind"`
	ClaimType string   `json:"claim_type,omitempty"`
	Values    []string `json:"values,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// CreatePolicyRequest contains the parameters for creating a stored policy.
type CreatePolicyRequest struct {
	Name         string                   `json:"name"`
	Requirements []RequirementSpecRequest `json:"requirements"`
	Schemes      []string                 `json:"schemes,omitempty"`
}

// Validate checks if the create policy request is valid.
func (r *CreatePolicyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PolicyName,
			validation.Length(1, 255),
		),
		validation.Field(&r.Requirements,
			validation.Required,
			validation.Each(validation.By(validateRequirementSpec)),
		),
	)
}

// ToDomain converts the request into a domain create input.
func (r *CreatePolicyRequest) ToDomain() *authzDomain.CreatePolicyInput {
	specs := make([]authzDomain.RequirementSpec, 0, len(r.Requirements))
	for _, req := range r.Requirements {
		specs = append(specs, authzDomain.RequirementSpec{
			Kind:      req.Kind,
			ClaimType: req.ClaimType,
			Values:    req.Values,
			Roles:     req.Roles,
		})
	}
	return &authzDomain.CreatePolicyInput{
		Name: r.Name,
		Document: authzDomain.PolicyDocument{
			Requirements: specs,
			Schemes:      r.Schemes,
		},
	}
}

// validateRequirementSpec validates a single requirement spec.
func validateRequirementSpec(value interface{}) error {
	spec, ok := value.(RequirementSpecRequest)
	if !ok {
		return validation.NewError("validation_requirement_type", "must be a requirement spec")
	}

	return validation.ValidateStruct(&spec,
		validation.Field(&spec.Kind,
			validation.Required,
			validation.In(
				authzDomain.RequirementKindAuthenticatedUser,
				authzDomain.RequirementKindClaim,
				authzDomain.RequirementKindRole,
			),
		),
		validation.Field(&spec.ClaimType,
			validation.When(spec.Kind == authzDomain.RequirementKindClaim, validation.Required, customValidation.NotBlank),
		),
		validation.Field(&spec.Roles,
			validation.When(spec.Kind == authzDomain.RequirementKindRole, validation.Required, validation.Length(1, 0)),
		),
	)
}
