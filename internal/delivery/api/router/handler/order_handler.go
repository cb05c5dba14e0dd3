package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const maxIdempotencyKeyLength = 255

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves checkout and the order lifecycle.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// CreateOrderRequest is the checkout body.
type CreateOrderRequest struct {
	ItemID       uuid.UUID `json:"item_id" validate:"required"`
	UnitCount    int       `json:"unit_count" validate:"required,gte=1,lte=1000"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	DiscountCode string    `json:"discount_code" validate:"max=64"`
	SpecialCode  string    `json:"special_code" validate:"max=64"`
}

// TransitionOrderRequest names a lifecycle action.
type TransitionOrderRequest struct {
	Action string `json:"action" validate:"required,order_action"`
	Reason string `json:"reason" validate:"max=2000"`
}

// ResolveDisputeRequest carries the adjudicated outcome.
type ResolveDisputeRequest struct {
	FinalStatus string `json:"final_status" validate:"required,oneof=completed cancelled"`
	Reason      string `json:"reason" validate:"max=2000"`
}

// ContractRequest records the e-signature outcome.
type ContractRequest struct {
	Signed *bool `json:"signed" validate:"required"`
}

// PaymentRequest records the payment collaborator's status.
type PaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,payment_status"`
}

// ScanQRRequest is a scanned handover payload.
type ScanQRRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

// ListOrdersQuery selects the caller's side and an optional status.
type ListOrdersQuery struct {
	As     string `query:"as" validate:"omitempty,oneof=renter owner"`
	Status string `query:"status"`
	PageQuery
}

// CreateOrder places a pending order for the caller. A repeated Idempotency-Key returns the first order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	idempotencyKey := strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return response.BadRequest(c, "INVALID_IDEMPOTENCY_KEY", "Idempotency-Key is too long")
	}

	var req CreateOrderRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), &usecase.CreateOrderInput{
		RenterID:       principal.ID,
		ItemID:         req.ItemID,
		UnitCount:      req.UnitCount,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		DiscountCode:   req.DiscountCode,
		SpecialCode:    req.SpecialCode,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusCreated, order)
}

// ListOrders lists the caller's orders as renter (default) or owner
func (h *OrderHandler) ListOrders(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var query ListOrdersQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.ListOrdersInput{
		UserID: principal.ID,
		Party:  entity.PartyRenter,
		Page:   query.PageRequest(),
	}
	if query.As != "" {
		input.Party = entity.OrderParty(query.As)
	}
	if query.Status != "" {
		status := entity.OrderStatus(query.Status)
		input.Status = &status
	}

	page, err := h.orderUC.ListOrders(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetOrder returns one order to a party or staff
func (h *OrderHandler) GetOrder(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}

// GetOrderHistory returns the status history of an order
func (h *OrderHandler) GetOrderHistory(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	history, err := h.orderUC.GetOrderHistory(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, history)
}

// TransitionOrder applies a lifecycle action, guarded by If-Match when present
func (h *OrderHandler) TransitionOrder(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	version, err := expectedVersion(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req TransitionOrderRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.TransitionOrder(c.Request().Context(), &usecase.TransitionOrderInput{
		OrderID:         orderID,
		Action:          entity.OrderAction(req.Action),
		Actor:           principal,
		Reason:          req.Reason,
		ExpectedVersion: version,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}

// ResolveDispute applies the adjudicated outcome of a disputed order
func (h *OrderHandler) ResolveDispute(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	version, err := expectedVersion(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ResolveDisputeRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.ResolveDispute(c.Request().Context(), &usecase.ResolveDisputeInput{
		OrderID:         orderID,
		Actor:           principal,
		FinalStatus:     entity.OrderStatus(req.FinalStatus),
		Reason:          req.Reason,
		ExpectedVersion: version,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}

// SetContractSigned records the e-signature outcome
func (h *OrderHandler) SetContractSigned(c echo.Context) error {
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ContractRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.SetContractSigned(c.Request().Context(), orderID, *req.Signed)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}

// RecordPayment records the payment collaborator's status
func (h *OrderHandler) RecordPayment(c echo.Context) error {
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PaymentRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.RecordPayment(c.Request().Context(), orderID, entity.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}

// GetHandoverQR returns the handover QR code as a PNG image
func (h *OrderHandler) GetHandoverQR(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	png, err := h.orderUC.GenerateHandoverQR(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=handover-"+orderID.String()+".png")

	return response.PNG(c, png)
}

// ScanHandoverQR resolves a scanned handover code for the item owner
func (h *OrderHandler) ScanHandoverQR(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ScanQRRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.ScanHandoverQR(c.Request().Context(), principal, req.QRData)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return orderResponse(c, http.StatusOK, order)
}
