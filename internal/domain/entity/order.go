package entity

import (
	"time"

	"rentalhub/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a rental agreement between a renter and an owner. Its financial fields are
// settled once at creation and never recomputed.
type Order struct {
	ID       uuid.UUID    `json:"id"`        // The Global Unique Identifier (GUID) for the order.
	RenterID uuid.UUID    `json:"renter_id"` // User renting the item.
	OwnerID  uuid.UUID    `json:"owner_id"`  // User who owns the item.
	Item     ItemSnapshot `json:"item"`      // Item as it was at checkout.

	UnitCount      int                `json:"unit_count"`
	StartAt        time.Time          `json:"start_at"`
	EndAt          time.Time          `json:"end_at"`
	RentalDuration int                `json:"rental_duration"`
	RentalUnit     pricing.RentalUnit `json:"rental_unit"`

	TotalAmount    int64          `json:"total_amount"`
	DepositAmount  int64          `json:"deposit_amount"`
	ServiceFee     int64          `json:"service_fee"`
	ServiceFeeRate ServiceFeeRate `json:"service_fee_rate"`
	Discount       OrderDiscount  `json:"discount"`
	FinalAmount    int64          `json:"final_amount"`

	Status           OrderStatus   `json:"order_status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	DisputeID        *uuid.UUID    `json:"dispute_id,omitempty"`
	CancelReason     string        `json:"cancel_reason,omitempty"`
	CancelledBy      *uuid.UUID    `json:"cancelled_by,omitempty"`
	IsContractSigned bool          `json:"is_contract_signed"`
	Version          int           `json:"version"` // Bumped by every status change.
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// OrderDiscount records the codes applied at checkout and what each took off.
type OrderDiscount struct {
	Code                   string          `json:"code,omitempty"`
	Value                  decimal.Decimal `json:"value"`
	AmountApplied          int64           `json:"amount_applied"`
	SecondaryCode          string          `json:"secondary_code,omitempty"`
	SecondaryValue         decimal.Decimal `json:"secondary_value"`
	SecondaryAmountApplied int64           `json:"secondary_amount_applied"`
	TotalAmountApplied     int64           `json:"total_amount_applied"`
}

// Codes returns the applied codes, public first.
func (d OrderDiscount) Codes() []string {
	codes := make([]string, 0, 2)
	if d.Code != "" {
		codes = append(codes, d.Code)
	}
	if d.SecondaryCode != "" {
		codes = append(codes, d.SecondaryCode)
	}

	return codes
}

// DepositPerUnit is the deposit attributable to one rented unit, truncated.
func (o *Order) DepositPerUnit() int64 {
	if o.UnitCount <= 0 {
		return 0
	}

	return o.DepositAmount / int64(o.UnitCount)
}

// PartyOf returns which side of the order userID is on.
func (o *Order) PartyOf(userID uuid.UUID) (OrderParty, bool) {
	switch userID {
	case o.RenterID:
		return PartyRenter, true
	case o.OwnerID:
		return PartyOwner, true
	default:
		return "", false
	}
}

// Settlement returns the frozen financial breakdown.
func (o *Order) Settlement() pricing.Settlement {
	return pricing.Settlement{
		TotalAmount:           o.TotalAmount,
		DepositAmount:         o.DepositAmount,
		ServiceFee:            o.ServiceFee,
		PublicDiscountAmount:  o.Discount.AmountApplied,
		SpecialDiscountAmount: o.Discount.SecondaryAmountApplied,
		TotalDiscount:         o.Discount.TotalAmountApplied,
		FinalAmount:           o.FinalAmount,
	}
}

// OrderStatusChange is a compare-and-swap request on an order's status.
// It applies only if the stored order still has FromStatus and FromVersion.
type OrderStatusChange struct {
	OrderID      uuid.UUID
	FromStatus   OrderStatus
	FromVersion  int
	ToStatus     OrderStatus
	ActorID      uuid.UUID
	Reason       string
	DisputeID    *uuid.UUID
	CancelReason string
	CancelledBy  *uuid.UUID
	At           time.Time
}

// OrderStatusHistory is the audit row written with every status change.
type OrderStatusHistory struct {
	ID         uuid.UUID    `json:"id"`
	OrderID    uuid.UUID    `json:"order_id"`
	FromStatus *OrderStatus `json:"from_status,omitempty"` // Nil for the creation row.
	ToStatus   OrderStatus  `json:"to_status"`
	ActorID    uuid.UUID    `json:"actor_id"`
	Reason     string       `json:"reason,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// OrderListFilter selects orders of one party.
type OrderListFilter struct {
	UserID   uuid.UUID
	Party    OrderParty
	Status   *OrderStatus
	Page     int
	PageSize int
}
