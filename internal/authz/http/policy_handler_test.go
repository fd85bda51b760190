package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	"github.com/allisson/gatekeeper/internal/authz/http/dto"
)

// mockPolicyUseCase is a mock implementation of the policy use case.
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

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*PolicyHandler, *mockPolicyUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockPolicyUseCase{}
	handler := NewPolicyHandler(mockUseCase, testLogger())

	return handler, mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func storedPolicyFixture() *authzDomain.StoredPolicy {
	return &authzDomain.StoredPolicy{
		ID:   uuid.Must(uuid.NewV7()),
		Name: "can-view-page",
		Document: authzDomain.PolicyDocument{
			Requirements: []authzDomain.RequirementSpec{
				{Kind: authzDomain.RequirementKindClaim, ClaimType: "Permission", Values: []string{"CanViewPage"}},
			},
			Schemes: []string{SchemeAPIKey},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestPolicyHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		stored := storedPolicyFixture()
		request := dto.CreatePolicyRequest{
			Name: "can-view-page",
			Requirements: []dto.RequirementSpecRequest{
				{Kind: authzDomain.RequirementKindClaim, ClaimType: "Permission", Values: []string{"CanViewPage"}},
			},
			Schemes: []string{SchemeAPIKey},
		}

		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(input *authzDomain.CreatePolicyInput) bool {
			return input.Name == "can-view-page" && len(input.Document.Requirements) == 1
		})).Return(stored, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/policies", request)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.PolicyResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID.String(), response.ID)
		assert.Equal(t, "can-view-page", response.Name)
		assert.Len(t, response.Requirements, 1)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/policies", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_ValidationFailed_MissingName", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.CreatePolicyRequest{
			Requirements: []dto.RequirementSpecRequest{
				{Kind: authzDomain.RequirementKindAuthenticatedUser},
			},
		}

		c, w := createTestContext(http.MethodPost, "/v1/policies", request)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ValidationFailed_UnknownKind", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		request := dto.CreatePolicyRequest{
			Name: "can-view-page",
			Requirements: []dto.RequirementSpecRequest{
				{Kind: "wat"},
			},
		}

		c, w := createTestContext(http.MethodPost, "/v1/policies", request)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.CreatePolicyRequest{
			Name: "can-view-page",
			Requirements: []dto.RequirementSpecRequest{
				{Kind: authzDomain.RequirementKindAuthenticatedUser},
			},
		}

		mockUseCase.On("Create", mock.Anything, mock.Anything).
			Return(nil, authzDomain.ErrPolicyAlreadyExists).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/policies", request)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "conflict", response["error"])
	})
}

func TestPolicyHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		stored := storedPolicyFixture()

		mockUseCase.On("Get", mock.Anything, "can-view-page").Return(stored, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/policies/can-view-page", nil)
		c.Params = gin.Params{{Key: "name", Value: "can-view-page"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.PolicyResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID.String(), response.ID)
		assert.Equal(t, "can-view-page", response.Name)
		assert.Equal(t, []string{SchemeAPIKey}, response.Schemes)
	})

	t.Run("Error_PolicyNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Get", mock.Anything, "ghost").
			Return(nil, authzDomain.ErrPolicyNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/policies/ghost", nil)
		c.Params = gin.Params{{Key: "name", Value: "ghost"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "not_found", response["error"])
	})
}

func TestPolicyHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		first := storedPolicyFixture()
		second := storedPolicyFixture()
		second.Name = "require-admin"

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return([]*authzDomain.StoredPolicy{first, second}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/policies", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListPoliciesResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response.Data, 2)
		assert.Equal(t, "can-view-page", response.Data[0].Name)
		assert.Equal(t, "require-admin", response.Data[1].Name)
	})

	t.Run("Success_CustomPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, 10, 20).
			Return([]*authzDomain.StoredPolicy{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/policies?offset=10&limit=20", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListPoliciesResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Empty(t, response.Data)
		assert.NotNil(t, response.Data)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/policies?limit=101", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UseCaseError", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return(nil, errors.New("database error")).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/policies", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "internal_error", response["error"])
	})
}

func TestPolicyHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Delete", mock.Anything, "can-view-page").Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/policies/can-view-page", nil)
		c.Params = gin.Params{{Key: "name", Value: "can-view-page"}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Error_PolicyNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Delete", mock.Anything, "ghost").
			Return(authzDomain.ErrPolicyNotFound).
			Once()

		c, w := createTestContext(http.MethodDelete, "/v1/policies/ghost", nil)
		c.Params = gin.Params{{Key: "name", Value: "ghost"}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "not_found", response["error"])
	})
}
