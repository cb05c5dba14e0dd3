package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PolicyHandlerParams holds dependencies for PolicyHandler, injected by Fx.
type PolicyHandlerParams struct {
	fx.In

	PolicyUC usecase.PolicyUsecase
	Logger   *slog.Logger
}

// PolicyHandler serves versioned policy documents and the active service-fee rate.
type PolicyHandler struct {
	policyUC usecase.PolicyUsecase
	logger   *slog.Logger
}

// NewPolicyHandler is the constructor for PolicyHandler
func NewPolicyHandler(params PolicyHandlerParams) *PolicyHandler {
	return &PolicyHandler{
		policyUC: params.PolicyUC,
		logger:   params.Logger,
	}
}

// PolicyDocumentRequest is the body of create and supersede.
type PolicyDocumentRequest struct {
	Scope          string          `json:"scope" validate:"required"`
	Payload        json.RawMessage `json:"payload" validate:"required"`
	EffectiveFrom  time.Time       `json:"effective_from"`
	EffectiveTo    *time.Time      `json:"effective_to"`
	ChangesSummary string          `json:"changes_summary" validate:"max=2000"`
}

// PolicyScopeRequest names the scope an activation or deactivation applies to.
type PolicyScopeRequest struct {
	Scope string `json:"scope" validate:"required"`
}

// ListPoliciesQuery selects one scope's documents.
type ListPoliciesQuery struct {
	Scope string `query:"scope" validate:"required"`
	PageQuery
}

// ActivePolicyQuery selects the scope whose active document is read.
type ActivePolicyQuery struct {
	Scope string `query:"scope" validate:"required"`
}

// CreatePolicy stores a new v1.0 document
func (h *PolicyHandler) CreatePolicy(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PolicyDocumentRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(req.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	policy, err := h.policyUC.CreatePolicy(c.Request().Context(), &usecase.CreatePolicyInput{
		Scope:          scope,
		Payload:        req.Payload,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		ChangesSummary: req.ChangesSummary,
		CreatedBy:      principal.ID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, policy)
}

// SupersedePolicy replaces the active document of a scope with the next version
func (h *PolicyHandler) SupersedePolicy(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PolicyDocumentRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(req.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	policy, err := h.policyUC.SupersedePolicy(c.Request().Context(), &usecase.SupersedePolicyInput{
		Scope:          scope,
		Payload:        req.Payload,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		ChangesSummary: req.ChangesSummary,
		CreatedBy:      principal.ID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, policy)
}

// ActivatePolicy makes a document the active one of its scope
func (h *PolicyHandler) ActivatePolicy(c echo.Context) error {
	policyID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PolicyScopeRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(req.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	policy, err := h.policyUC.ActivatePolicy(c.Request().Context(), scope, policyID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, policy)
}

// DeactivatePolicy clears a document's active flag
func (h *PolicyHandler) DeactivatePolicy(c echo.Context) error {
	policyID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PolicyScopeRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(req.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.policyUC.DeactivatePolicy(c.Request().Context(), scope, policyID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Policy deactivated"})
}

// DeletePolicy removes an inactive document
func (h *PolicyHandler) DeletePolicy(c echo.Context) error {
	policyID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.policyUC.DeletePolicy(c.Request().Context(), policyID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Policy deleted"})
}

// GetPolicy returns one document version
func (h *PolicyHandler) GetPolicy(c echo.Context) error {
	policyID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	policy, err := h.policyUC.GetPolicy(c.Request().Context(), policyID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, policy)
}

// ListPolicies lists a scope's documents, newest version first
func (h *PolicyHandler) ListPolicies(c echo.Context) error {
	var query ListPoliciesQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(query.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.policyUC.ListPolicies(c.Request().Context(), scope, query.PageRequest())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetActivePolicy returns the active document of a scope and where it came from
func (h *PolicyHandler) GetActivePolicy(c echo.Context) error {
	var query ActivePolicyQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}
	scope, err := parseScope(query.Scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	active, err := h.policyUC.GetActivePolicy(c.Request().Context(), scope)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, active)
}

// GetServiceFeeRate returns the service-fee rate checkout would use now
func (h *PolicyHandler) GetServiceFeeRate(c echo.Context) error {
	rate, err := h.policyUC.GetServiceFeeRate(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, rate)
}
