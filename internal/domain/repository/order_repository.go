package repository

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusConflict is returned when a status compare-and-swap matched no row.
	ErrOrderStatusConflict = errors.New("order status or version changed")
)

// OrderRepository defines the interface for orders and their status history.
type OrderRepository interface {
	// Create persists a new order with its frozen settlement.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List returns the orders of one party, newest first.
	List(ctx context.Context, filter entity.OrderListFilter) ([]*entity.Order, int64, error)

	// UpdateStatus applies change only if the stored order still has change.FromStatus and
	// change.FromVersion, and bumps the version. Returns ErrOrderStatusConflict otherwise.
	UpdateStatus(ctx context.Context, change entity.OrderStatusChange) error

	// UpdateContractSigned records the e-signature outcome.
	UpdateContractSigned(ctx context.Context, id uuid.UUID, signed bool, at time.Time) error

	// UpdatePaymentStatus records the payment collaborator's status.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, at time.Time) error

	// AppendHistory writes one status history row.
	AppendHistory(ctx context.Context, history *entity.OrderStatusHistory) error

	// ListHistory returns an order's status history, oldest first.
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error)
}

// OrderAnalyticsRepository aggregates frozen order fields for reporting.
type OrderAnalyticsRepository interface {
	// CountByStatus counts an owner's orders created in [from, to) per status.
	CountByStatus(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[entity.OrderStatus]int64, error)

	// MonthlyTotals sums an owner's orders with the given status created in [from, to),
	// bucketed by UTC calendar month and ordered by month.
	MonthlyTotals(ctx context.Context, ownerID uuid.UUID, status entity.OrderStatus, from, to time.Time) ([]entity.MonthlyTotals, error)
}
