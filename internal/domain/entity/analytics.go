package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderTotals sums the frozen amounts of a set of orders.
type OrderTotals struct {
	Orders        int64 `json:"orders"`
	RentalAmount  int64 `json:"rental_amount"`
	DepositAmount int64 `json:"deposit_amount"`
	ServiceFee    int64 `json:"service_fee"`
	Discount      int64 `json:"discount"`
	FinalAmount   int64 `json:"final_amount"`
}

// Add accumulates one order.
func (t *OrderTotals) Add(o *Order) {
	t.Orders++
	t.RentalAmount += o.TotalAmount
	t.DepositAmount += o.DepositAmount
	t.ServiceFee += o.ServiceFee
	t.Discount += o.Discount.TotalAmountApplied
	t.FinalAmount += o.FinalAmount
}

// MonthlyTotals is one bucket of the completed-order series; Month is YYYY-MM in UTC.
type MonthlyTotals struct {
	Month string `json:"month"`
	OrderTotals
}

// OwnerSummary aggregates an owner's orders created in [From, To).
type OwnerSummary struct {
	OwnerID      uuid.UUID             `json:"owner_id"`
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	StatusCounts map[OrderStatus]int64 `json:"status_counts"`
	Completed    OrderTotals           `json:"completed"`
	Monthly      []MonthlyTotals       `json:"monthly"`
}
