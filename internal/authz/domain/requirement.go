package domain

// Requirement is one atomic condition a principal must satisfy. Evaluate marks
// the requirement as met on the evaluation context via Succeed; a requirement
// that is not met simply leaves itself pending. Requirements may also call
// Fail to veto the whole evaluation regardless of other requirements.
//
// Requirements are always handled by pointer so they can act as identity keys
// in the evaluation context.
type Requirement interface {
	Evaluate(ec *EvaluationContext)
}

// AuthenticatedUserRequirement is met when the principal has at least one
// authenticated identity.
type AuthenticatedUserRequirement struct{}

// Evaluate implements Requirement.
func (r *AuthenticatedUserRequirement) Evaluate(ec *EvaluationContext) {
	if ec.Principal.IsAuthenticated() {
		ec.Succeed(r)
	}
}

// ClaimRequirement is met when the principal carries a claim of ClaimType whose
// value is in AllowedValues. An empty AllowedValues accepts any value.
type ClaimRequirement struct {
	ClaimType     string
	AllowedValues []string
}

// Evaluate implements Requirement.
func (r *ClaimRequirement) Evaluate(ec *EvaluationContext) {
	if ec.Principal.HasClaim(r.ClaimType, r.AllowedValues) {
		ec.Succeed(r)
	}
}

// RoleRequirement is met when any identity holds a role claim equal to one of
// Roles.
type RoleRequirement struct {
	Roles []string
}

// Evaluate implements Requirement.
func (r *RoleRequirement) Evaluate(ec *EvaluationContext) {
	if ec.Principal.HasRole(r.Roles) {
		ec.Succeed(r)
	}
}

// AssertionRequirement wraps a caller-supplied predicate captured at policy
// build time. The predicate receives the evaluation context and may inspect
// its Resource; it must not mutate it.
type AssertionRequirement struct {
	Assert func(ec *EvaluationContext) bool
}

// Evaluate implements Requirement. A nil predicate never succeeds.
func (r *AssertionRequirement) Evaluate(ec *EvaluationContext) {
	if r.Assert != nil && r.Assert(ec) {
		ec.Succeed(r)
	}
}
