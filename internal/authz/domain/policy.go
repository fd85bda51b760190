package domain

import "slices"

// Policy is a named bundle of requirements plus the authentication schemes
// accepted for it. Policies are built once via PolicyBuilder, immutable
// afterwards, and shared by reference across concurrent requests.
type Policy struct {
	name         string
	requirements []Requirement
	schemes      []string
}

// Name returns the policy name. Combined policies may have an empty name.
func (p *Policy) Name() string {
	return p.name
}

// Requirements returns the policy requirements in declaration order.
// The returned slice is a copy; the policy itself is never mutated.
func (p *Policy) Requirements() []Requirement {
	return slices.Clone(p.requirements)
}

// Schemes returns the authentication scheme names accepted by this policy.
// Empty means the default scheme applies.
func (p *Policy) Schemes() []string {
	return slices.Clone(p.schemes)
}

// PolicyBuilder accumulates requirements and schemes and produces an immutable
// Policy. Builders are not safe for concurrent use.
type PolicyBuilder struct {
	name         string
	requirements []Requirement
	schemes      []string
}

// NewPolicyBuilder creates a builder for a policy with the given name.
func NewPolicyBuilder(name string) *PolicyBuilder {
	return &PolicyBuilder{name: name}
}

// RequireAuthenticatedUser adds a requirement that the principal has at least
// one authenticated identity.
func (b *PolicyBuilder) RequireAuthenticatedUser() *PolicyBuilder {
	b.requirements = append(b.requirements, &AuthenticatedUserRequirement{})
	return b
}

// RequireClaim adds a requirement for a claim of claimType with one of the
// given values (any value if none given).
func (b *PolicyBuilder) RequireClaim(claimType string, values ...string) *PolicyBuilder {
	b.requirements = append(b.requirements, &ClaimRequirement{
		ClaimType:     claimType,
		AllowedValues: slices.Clone(values),
	})
	return b
}

// RequireRole adds a requirement for at least one of the given roles.
func (b *PolicyBuilder) RequireRole(roles ...string) *PolicyBuilder {
	b.requirements = append(b.requirements, &RoleRequirement{Roles: slices.Clone(roles)})
	return b
}

// RequireAssertion adds a caller-supplied predicate as a requirement.
func (b *PolicyBuilder) RequireAssertion(assert func(ec *EvaluationContext) bool) *PolicyBuilder {
	b.requirements = append(b.requirements, &AssertionRequirement{Assert: assert})
	return b
}

// AddRequirement appends an already-constructed requirement.
func (b *PolicyBuilder) AddRequirement(requirement Requirement) *PolicyBuilder {
	b.requirements = append(b.requirements, requirement)
	return b
}

// AddSchemes appends authentication scheme names. Duplicates are dropped at
// build time.
func (b *PolicyBuilder) AddSchemes(schemes ...string) *PolicyBuilder {
	b.schemes = append(b.schemes, schemes...)
	return b
}

// Combine merges another policy into this builder: requirements are
// concatenated in order, scheme sets are unioned.
func (b *PolicyBuilder) Combine(policy *Policy) *PolicyBuilder {
	if policy == nil {
		return b
	}
	b.requirements = append(b.requirements, policy.requirements...)
	b.schemes = append(b.schemes, policy.schemes...)
	return b
}

// Build produces the immutable policy.
func (b *PolicyBuilder) Build() *Policy {
	var schemes []string
	for _, scheme := range b.schemes {
		if !slices.Contains(schemes, scheme) {
			schemes = append(schemes, scheme)
		}
	}
	return &Policy{
		name:         b.name,
		requirements: slices.Clone(b.requirements),
		schemes:      schemes,
	}
}
