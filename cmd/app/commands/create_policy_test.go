package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

type mockPolicyUseCase struct {
	mock.Mock
}

func (m *mockPolicyUseCase) Create(ctx context.Context, input *authzDomain.CreatePolicyInput) (*authzDomain.StoredPolicy, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authzDomain.StoredPolicy), args.Error(1)
}

func (m *mockPolicyUseCase) Get(ctx context.Context, name string) (*authzDomain.StoredPolicy, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authzDomain.StoredPolicy), args.Error(1)
}

func (m *mockPolicyUseCase) List(ctx context.Context, offset, limit int) ([]*authzDomain.StoredPolicy, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authzDomain.StoredPolicy), args.Error(1)
}

func (m *mockPolicyUseCase) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func TestRunCreatePolicy(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	policyID := uuid.Must(uuid.NewV7())

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockPolicyUseCase{}
		input := &authzDomain.CreatePolicyInput{
			Name: "policy-admin",
			Document: authzDomain.PolicyDocument{
				Requirements: []authzDomain.RequirementSpec{
					{Kind: authzDomain.RequirementKindRole, Roles: []string{"admin"}},
				},
				Schemes: []string{"api_key"},
			},
		}
		stored := &authzDomain.StoredPolicy{
			ID:        policyID,
			Name:      "policy-admin",
			Document:  input.Document,
			CreatedAt: time.Now(),
		}

		mockUseCase.On("Create", ctx, input).Return(stored, nil)

		var out bytes.Buffer
		io := IOTuple{Reader: nil, Writer: &out}

		err := RunCreatePolicy(
			ctx,
			mockUseCase,
			logger,
			"policy-admin",
			`[{"kind":"role","roles":["admin"]}]`,
			"api_key",
			"text",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), policyID.String())
		require.Contains(t, out.String(), "policy-admin")
		require.Contains(t, out.String(), "api_key")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockPolicyUseCase{}
		stored := &authzDomain.StoredPolicy{
			ID:   policyID,
			Name: "policy-reader",
			Document: authzDomain.PolicyDocument{
				Requirements: []authzDomain.RequirementSpec{
					{Kind: authzDomain.RequirementKindAuthenticatedUser},
				},
			},
			CreatedAt: time.Now(),
		}

		mockUseCase.On("Create", ctx, mock.Anything).Return(stored, nil)

		var out bytes.Buffer
		io := IOTuple{Reader: nil, Writer: &out}

		err := RunCreatePolicy(
			ctx,
			mockUseCase,
			logger,
			"policy-reader",
			`[{"kind":"authenticated_user"}]`,
			"",
			"json",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), policyID.String())
		require.Contains(t, out.String(), `"policy_id"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-requirements-json", func(t *testing.T) {
		mockUseCase := &mockPolicyUseCase{}
		io := IOTuple{Reader: nil, Writer: &bytes.Buffer{}}

		err := RunCreatePolicy(ctx, mockUseCase, logger, "broken", "not-json", "", "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse requirements JSON")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty-requirements", func(t *testing.T) {
		mockUseCase := &mockPolicyUseCase{}
		io := IOTuple{Reader: nil, Writer: &bytes.Buffer{}}

		err := RunCreatePolicy(ctx, mockUseCase, logger, "empty", "[]", "", "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "at least one requirement")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &mockPolicyUseCase{}
		mockUseCase.On("Create", ctx, mock.Anything).Return(nil, authzDomain.ErrPolicyAlreadyExists)

		io := IOTuple{Reader: nil, Writer: &bytes.Buffer{}}

		err := RunCreatePolicy(
			ctx,
			mockUseCase,
			logger,
			"dup",
			`[{"kind":"authenticated_user"}]`,
			"",
			"text",
			io,
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create policy")
		mockUseCase.AssertExpectations(t)
	})
}

func TestParseCommaList(t *testing.T) {
	require.Nil(t, parseCommaList(""))
	require.Equal(t, []string{"api_key"}, parseCommaList("api_key"))
	require.Equal(t, []string{"api_key", "bearer"}, parseCommaList(" api_key , bearer "))
	require.Equal(t, []string{"bearer"}, parseCommaList(",bearer,"))
}
