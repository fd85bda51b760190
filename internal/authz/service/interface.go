// Package service provides technical services for authorization: policy
// evaluation and credential verification.
package service

import (
	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// PolicyEvaluator decides whether a principal satisfies a policy.
type PolicyEvaluator interface {
	// Evaluate runs every requirement of the policy against the principal and
	// returns the verdict:
	//
	//   - VerdictAllow when all requirements succeed (a policy with no
	//     requirements always allows)
	//   - VerdictChallenge when a requirement is unmet and the principal is not
	//     authenticated
	//   - VerdictForbid when a requirement is unmet and the principal is
	//     authenticated, or when any requirement explicitly fails
	//
	// The resource is exposed to assertion requirements through the evaluation
	// context and is never copied or mutated.
	Evaluate(policy *authzDomain.Policy, principal *authzDomain.Principal, resource any) authzDomain.Verdict
}
