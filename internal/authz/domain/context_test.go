package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluationContext_SucceedAndPending(t *testing.T) {
	first := &AuthenticatedUserRequirement{}
	second := &RoleRequirement{Roles: []string{"admin"}}
	ec := NewEvaluationContext(NewAnonymousPrincipal(), []Requirement{first, second}, nil)

	assert.False(t, ec.AllSucceeded())
	assert.Len(t, ec.PendingRequirements(), 2)

	ec.Succeed(first)
	assert.False(t, ec.AllSucceeded())
	assert.Equal(t, []Requirement{second}, ec.PendingRequirements())

	ec.Succeed(second)
	assert.True(t, ec.AllSucceeded())
	assert.Empty(t, ec.PendingRequirements())
}

func TestEvaluationContext_FailIsSticky(t *testing.T) {
	requirement := &AuthenticatedUserRequirement{}
	ec := NewEvaluationContext(NewAnonymousPrincipal(), []Requirement{requirement}, nil)

	ec.Fail()
	ec.Succeed(requirement)

	assert.True(t, ec.Failed())
	assert.False(t, ec.AllSucceeded(), "explicit failure can never become an allow")
}

func TestEvaluationContext_ZeroRequirements(t *testing.T) {
	ec := NewEvaluationContext(NewAnonymousPrincipal(), nil, nil)
	assert.True(t, ec.AllSucceeded())
}

func TestEvaluationContext_ResourceIdentity(t *testing.T) {
	type resource struct{ name string }
	res := &resource{name: "GET /ping"}

	ec := NewEvaluationContext(NewAnonymousPrincipal(), nil, res)

	// Assertions must observe the exact object, not a copy.
	assert.Same(t, res, ec.Resource)
}

func TestAssertionRequirement_Evaluate(t *testing.T) {
	t.Run("predicate true succeeds", func(t *testing.T) {
		requirement := &AssertionRequirement{Assert: func(ec *EvaluationContext) bool { return true }}
		ec := NewEvaluationContext(NewAnonymousPrincipal(), []Requirement{requirement}, nil)

		requirement.Evaluate(ec)

		assert.True(t, ec.AllSucceeded())
	})

	t.Run("predicate false leaves requirement pending", func(t *testing.T) {
		requirement := &AssertionRequirement{Assert: func(ec *EvaluationContext) bool { return false }}
		ec := NewEvaluationContext(NewAnonymousPrincipal(), []Requirement{requirement}, nil)

		requirement.Evaluate(ec)

		assert.False(t, ec.AllSucceeded())
	})

	t.Run("nil predicate never succeeds", func(t *testing.T) {
		requirement := &AssertionRequirement{}
		ec := NewEvaluationContext(NewAnonymousPrincipal(), []Requirement{requirement}, nil)

		requirement.Evaluate(ec)

		assert.False(t, ec.AllSucceeded())
	})
}
