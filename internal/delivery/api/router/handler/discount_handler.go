package handler

import (
	"net/http"
	"time"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// DiscountHandlerParams holds dependencies for DiscountHandler, injected by Fx.
type DiscountHandlerParams struct {
	fx.In

	DiscountUC usecase.DiscountUsecase
}

// DiscountHandler serves the discount catalog.
type DiscountHandler struct {
	discountUC usecase.DiscountUsecase
}

// NewDiscountHandler is the constructor for DiscountHandler
func NewDiscountHandler(params DiscountHandlerParams) *DiscountHandler {
	return &DiscountHandler{discountUC: params.DiscountUC}
}

// CreateDiscountRequest is the body of CreateDiscount.
type CreateDiscountRequest struct {
	Code              string          `json:"code" validate:"required,max=64"`
	Description       string          `json:"description" validate:"max=2000"`
	Type              string          `json:"type" validate:"required,discount_type"`
	Value             decimal.Decimal `json:"value"`
	MaxDiscountAmount *int64          `json:"max_discount_amount" validate:"omitempty,gte=0"`
	MinOrderAmount    int64           `json:"min_order_amount" validate:"gte=0"`
	StartAt           time.Time       `json:"start_at"`
	EndAt             time.Time       `json:"end_at"`
	UsageLimit        *int            `json:"usage_limit" validate:"omitempty,gte=1"`
	IsSpecial         bool            `json:"is_special"`
	OwnerID           *uuid.UUID      `json:"owner_id"`
	ItemID            *uuid.UUID      `json:"item_id"`
}

// ValidateDiscountRequest is the body of ValidateDiscount.
type ValidateDiscountRequest struct {
	Code       string     `json:"code" validate:"required"`
	BaseAmount int64      `json:"base_amount" validate:"gte=0"`
	OwnerID    *uuid.UUID `json:"owner_id"`
	ItemID     *uuid.UUID `json:"item_id"`
}

// AvailableDiscountsQuery narrows the available codes to an owner and/or item.
type AvailableDiscountsQuery struct {
	OwnerID *uuid.UUID `query:"owner_id"`
	ItemID  *uuid.UUID `query:"item_id"`
	PageQuery
}

// ListAvailable returns the public and special codes usable right now
func (h *DiscountHandler) ListAvailable(c echo.Context) error {
	var query AvailableDiscountsQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}

	available, err := h.discountUC.ListAvailable(
		c.Request().Context(),
		entity.DiscountSubject{OwnerID: query.OwnerID, ItemID: query.ItemID},
		query.PageRequest(),
	)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, available)
}

// ValidateDiscount quotes a code against an amount without consuming it
func (h *DiscountHandler) ValidateDiscount(c echo.Context) error {
	var req ValidateDiscountRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	quote, err := h.discountUC.ValidateDiscount(c.Request().Context(), &usecase.ValidateDiscountInput{
		Code:       req.Code,
		BaseAmount: req.BaseAmount,
		OwnerID:    req.OwnerID,
		ItemID:     req.ItemID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, quote)
}

// CreateDiscount stores a new code
func (h *DiscountHandler) CreateDiscount(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreateDiscountRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	discount, err := h.discountUC.CreateDiscount(c.Request().Context(), &usecase.CreateDiscountInput{
		Code:              req.Code,
		Description:       req.Description,
		Type:              pricing.DiscountType(req.Type),
		Value:             req.Value,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		UsageLimit:        req.UsageLimit,
		IsSpecial:         req.IsSpecial,
		OwnerID:           req.OwnerID,
		ItemID:            req.ItemID,
		CreatedBy:         principal.ID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, discount)
}

// GetDiscount returns a code with its usage counter
func (h *DiscountHandler) GetDiscount(c echo.Context) error {
	discount, err := h.discountUC.GetDiscount(c.Request().Context(), c.Param("code"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, discount)
}

// ListDiscounts lists every code, newest first
func (h *DiscountHandler) ListDiscounts(c echo.Context) error {
	var query PageQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.discountUC.ListDiscounts(c.Request().Context(), query.PageRequest())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}
