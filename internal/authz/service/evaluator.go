package service

import (
	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// policyEvaluator implements PolicyEvaluator with in-order requirement
// evaluation and explicit-failure short-circuiting.
type policyEvaluator struct{}

// Evaluate implements PolicyEvaluator.
func (e *policyEvaluator) Evaluate(
	policy *authzDomain.Policy,
	principal *authzDomain.Principal,
	resource any,
) authzDomain.Verdict {
	requirements := policy.Requirements()
	ec := authzDomain.NewEvaluationContext(principal, requirements, resource)

	for _, requirement := range requirements {
		requirement.Evaluate(ec)
		// An explicit Fail is a veto: no later requirement can undo it, so stop
		// evaluating and forbid regardless of authentication state.
		if ec.Failed() {
			return authzDomain.VerdictForbid
		}
	}

	if ec.AllSucceeded() {
		return authzDomain.VerdictAllow
	}
	if principal.IsAuthenticated() {
		return authzDomain.VerdictForbid
	}
	return authzDomain.VerdictChallenge
}

// NewPolicyEvaluator creates a new PolicyEvaluator instance.
func NewPolicyEvaluator() PolicyEvaluator {
	return &policyEvaluator{}
}
