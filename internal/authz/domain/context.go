package domain

// EvaluationContext is the read-mostly view passed to requirements during a
// single policy evaluation. It tracks which requirements have succeeded and
// whether an evaluator declared an explicit failure.
//
// A context is owned exclusively by one evaluation loop and discarded after
// it; it is never shared across requests.
type EvaluationContext struct {
	// Principal under evaluation. Never nil.
	Principal *Principal
	// Requirements in declaration order.
	Requirements []Requirement
	// Resource is the object authorization is evaluated against (the matched
	// endpoint). Opaque to the evaluator; assertions may inspect it.
	Resource any

	pending map[Requirement]struct{}
	failed  bool
}

// NewEvaluationContext creates a context with every requirement pending.
func NewEvaluationContext(principal *Principal, requirements []Requirement, resource any) *EvaluationContext {
	pending := make(map[Requirement]struct{}, len(requirements))
	for _, requirement := range requirements {
		pending[requirement] = struct{}{}
	}
	return &EvaluationContext{
		Principal:    principal,
		Requirements: requirements,
		Resource:     resource,
		pending:      pending,
	}
}

// Succeed marks the given requirement as met.
func (ec *EvaluationContext) Succeed(requirement Requirement) {
	delete(ec.pending, requirement)
}

// Fail declares the whole evaluation failed. Once called, no later Succeed can
// turn the verdict into an allow.
func (ec *EvaluationContext) Fail() {
	ec.failed = true
}

// Failed reports whether Fail was called.
func (ec *EvaluationContext) Failed() bool {
	return ec.failed
}

// AllSucceeded reports whether every requirement is met and no explicit
// failure was declared.
func (ec *EvaluationContext) AllSucceeded() bool {
	return !ec.failed && len(ec.pending) == 0
}

// PendingRequirements returns the requirements still unmet, in declaration
// order.
func (ec *EvaluationContext) PendingRequirements() []Requirement {
	var unmet []Requirement
	for _, requirement := range ec.Requirements {
		if _, ok := ec.pending[requirement]; ok {
			unmet = append(unmet, requirement)
		}
	}
	return unmet
}
