package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/gatekeeper/internal/authz/http/dto"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	"github.com/allisson/gatekeeper/internal/httputil"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// PolicyHandler handles HTTP requests for the policy admin API.
type PolicyHandler struct {
	policyUseCase authzUseCase.PolicyUseCase
	logger        *slog.Logger
}

// NewPolicyHandler creates a new policy handler with required dependencies.
func NewPolicyHandler(policyUseCase authzUseCase.PolicyUseCase, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{
		policyUseCase: policyUseCase,
		logger:        logger,
	}
}

// CreateHandler stores a new policy.
// POST /v1/policies - Returns 201 Created with the stored policy.
func (h *PolicyHandler) CreateHandler(c *gin.Context) {
	var req dto.CreatePolicyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	policy, err := h.policyUseCase.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPolicyToResponse(policy))
}

// GetHandler retrieves a policy by name.
// GET /v1/policies/:name - Returns 200 OK with the stored policy.
func (h *PolicyHandler) GetHandler(c *gin.Context) {
	policy, err := h.policyUseCase.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPolicyToResponse(policy))
}

// ListHandler retrieves policies with pagination support.
// GET /v1/policies?offset=0&limit=50 - Returns 200 OK with the policy list.
func (h *PolicyHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	policies, err := h.policyUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPoliciesToListResponse(policies))
}

// DeleteHandler removes a policy by name.
// DELETE /v1/policies/:name - Returns 204 No Content.
func (h *PolicyHandler) DeleteHandler(c *gin.Context) {
	if err := h.policyUseCase.Delete(c.Request.Context(), c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
