package handler

import (
	"net/http"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PrivacyTypeHandlerParams holds dependencies for PrivacyTypeHandler, injected by Fx.
type PrivacyTypeHandlerParams struct {
	fx.In

	PrivacyTypeUC usecase.PrivacyTypeUsecase
}

// PrivacyTypeHandler serves the privacy types that gate privacy documents.
type PrivacyTypeHandler struct {
	privacyTypeUC usecase.PrivacyTypeUsecase
}

// NewPrivacyTypeHandler is the constructor for PrivacyTypeHandler
func NewPrivacyTypeHandler(params PrivacyTypeHandlerParams) *PrivacyTypeHandler {
	return &PrivacyTypeHandler{privacyTypeUC: params.PrivacyTypeUC}
}

// CreatePrivacyTypeRequest is the body of CreatePrivacyType.
type CreatePrivacyTypeRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// SetPrivacyTypeActiveRequest is the body of SetPrivacyTypeActive.
type SetPrivacyTypeActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ListPrivacyTypesQuery filters the listing.
type ListPrivacyTypesQuery struct {
	Active bool `query:"active"`
}

// CreatePrivacyType stores a new, active privacy type
func (h *PrivacyTypeHandler) CreatePrivacyType(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreatePrivacyTypeRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	privacyType, err := h.privacyTypeUC.CreatePrivacyType(c.Request().Context(), &usecase.CreatePrivacyTypeInput{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   principal.ID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, privacyType)
}

// ListPrivacyTypes lists privacy types, optionally only the active ones
func (h *PrivacyTypeHandler) ListPrivacyTypes(c echo.Context) error {
	var query ListPrivacyTypesQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}

	privacyTypes, err := h.privacyTypeUC.ListPrivacyTypes(c.Request().Context(), query.Active)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, privacyTypes)
}

// SetPrivacyTypeActive activates or deactivates a privacy type
func (h *PrivacyTypeHandler) SetPrivacyTypeActive(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SetPrivacyTypeActiveRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	privacyType, err := h.privacyTypeUC.SetPrivacyTypeActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, privacyType)
}
