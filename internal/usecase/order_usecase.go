package usecase

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateOrderInput is a checkout request from a renter.
type CreateOrderInput struct {
	RenterID       uuid.UUID
	ItemID         uuid.UUID
	UnitCount      int
	StartAt        time.Time
	EndAt          time.Time
	DiscountCode   string
	SpecialCode    string
	IdempotencyKey string
}

// TransitionOrderInput asks for one lifecycle action on an order.
type TransitionOrderInput struct {
	OrderID uuid.UUID
	Action  entity.OrderAction
	Actor   entity.Principal
	Reason  string
	// ExpectedVersion, when set, must equal the stored version.
	ExpectedVersion *int
}

// ResolveDisputeInput carries the outcome of dispute adjudication.
type ResolveDisputeInput struct {
	OrderID         uuid.UUID
	Actor           entity.Principal
	FinalStatus     entity.OrderStatus
	Reason          string
	ExpectedVersion *int
}

// ListOrdersInput selects the caller's orders.
type ListOrdersInput struct {
	UserID uuid.UUID
	Party  entity.OrderParty
	Status *entity.OrderStatus
	Page   PageRequest
}

// OrderUsecase defines the interface for the order lifecycle
type OrderUsecase interface {
	// CreateOrder settles and stores a new pending order. A repeated idempotency key returns the first order.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)

	// TransitionOrder applies a party action to an order
	TransitionOrder(ctx context.Context, input *TransitionOrderInput) (*entity.Order, error)

	// ResolveDispute moves a disputed order to its final status
	ResolveDispute(ctx context.Context, input *ResolveDisputeInput) (*entity.Order, error)

	// SetContractSigned records the e-signature outcome
	SetContractSigned(ctx context.Context, orderID uuid.UUID, signed bool) (*entity.Order, error)

	// RecordPayment records the payment collaborator's status
	RecordPayment(ctx context.Context, orderID uuid.UUID, status entity.PaymentStatus) (*entity.Order, error)

	// RefundCancelledOrder marks a collected payment refunded once the order is cancelled.
	// It reports false when there was nothing to refund.
	RefundCancelledOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, bool, error)

	// GetOrder returns an order visible to the caller
	GetOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// ListOrders lists the caller's orders on one side
	ListOrders(ctx context.Context, input *ListOrdersInput) (*Page[*entity.Order], error)

	// GetOrderHistory returns the status history of an order visible to the caller
	GetOrderHistory(ctx context.Context, actor entity.Principal, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error)

	// GenerateHandoverQR renders the handover QR code of an order for its parties
	GenerateHandoverQR(ctx context.Context, actor entity.Principal, orderID uuid.UUID) ([]byte, error)

	// ScanHandoverQR resolves a scanned payload to the order, for its owner
	ScanHandoverQR(ctx context.Context, actor entity.Principal, qrData string) (*entity.Order, error)
}
