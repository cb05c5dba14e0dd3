package entity

import (
	"strings"
	"time"

	"rentalhub/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is a promotional code. Public codes are listed to everyone; special codes
// are handed out to specific users and may be scoped to an owner or a single item.
type Discount struct {
	ID                uuid.UUID            `json:"id"`                            // The Global Unique Identifier (GUID) for the discount.
	Code              string               `json:"code"`                          // Upper-cased, unique.
	Description       string               `json:"description,omitempty"`         // Shown next to the code.
	Type              pricing.DiscountType `json:"type"`                          // percent or fixed.
	Value             decimal.Decimal      `json:"value"`                         // Percent points or minor units depending on Type.
	MaxDiscountAmount *int64               `json:"max_discount_amount,omitempty"` // Cap for percent discounts.
	MinOrderAmount    int64                `json:"min_order_amount"`              // Minimum rental amount to qualify.
	StartAt           time.Time            `json:"start_at"`                      // Window start, inclusive.
	EndAt             time.Time            `json:"end_at"`                        // Window end, inclusive.
	UsageLimit        *int                 `json:"usage_limit,omitempty"`         // Nil means unlimited.
	UsedCount         int                  `json:"used_count"`                    // Never exceeds UsageLimit.
	IsSpecial         bool                 `json:"is_special"`                    // Special codes stack on top of one public code.
	OwnerID           *uuid.UUID           `json:"owner_id,omitempty"`            // Restricts the code to one owner's items.
	ItemID            *uuid.UUID           `json:"item_id,omitempty"`             // Restricts the code to one item.
	CreatedBy         uuid.UUID            `json:"created_by"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// NormalizeDiscountCode trims and upper-cases a code for storage and lookup.
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// InWindow reports whether now falls in [StartAt, EndAt].
func (d *Discount) InWindow(now time.Time) bool {
	return !now.Before(d.StartAt) && !now.After(d.EndAt)
}

// Exhausted reports whether the usage limit has been reached.
func (d *Discount) Exhausted() bool {
	return d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit
}

// Terms returns the value part used by settlement.
func (d *Discount) Terms() pricing.DiscountTerms {
	return pricing.DiscountTerms{
		Code:      d.Code,
		Type:      d.Type,
		Value:     d.Value,
		MaxAmount: d.MaxDiscountAmount,
	}
}

// IneligibleReason explains why a code cannot be applied.
type IneligibleReason string

const (
	IneligibleNotStarted    IneligibleReason = "not_started"
	IneligibleExpired       IneligibleReason = "expired"
	IneligibleBelowMinimum  IneligibleReason = "below_minimum_order_amount"
	IneligibleExhausted     IneligibleReason = "usage_limit_reached"
	IneligibleScopeMismatch IneligibleReason = "not_applicable_to_item"
)

// Ineligibility returns the first reason the discount cannot apply, or "" when it can.
func (d *Discount) Ineligibility(now time.Time, baseAmount int64, subject DiscountSubject) IneligibleReason {
	switch {
	case now.Before(d.StartAt):
		return IneligibleNotStarted
	case now.After(d.EndAt):
		return IneligibleExpired
	case d.Exhausted():
		return IneligibleExhausted
	case baseAmount < d.MinOrderAmount:
		return IneligibleBelowMinimum
	case !subject.Matches(d):
		return IneligibleScopeMismatch
	default:
		return ""
	}
}

// DiscountSubject narrows a discount lookup to an owner and/or item. Zero fields are unknown.
type DiscountSubject struct {
	OwnerID *uuid.UUID
	ItemID  *uuid.UUID
}

// Matches reports whether d can apply to the subject. A scoped discount needs the
// corresponding subject field to be known and equal.
func (s DiscountSubject) Matches(d *Discount) bool {
	if d.OwnerID != nil && (s.OwnerID == nil || *s.OwnerID != *d.OwnerID) {
		return false
	}
	if d.ItemID != nil && (s.ItemID == nil || *s.ItemID != *d.ItemID) {
		return false
	}

	return true
}

// AvailableDiscounts is the listing shown at checkout.
type AvailableDiscounts struct {
	Public  []*Discount `json:"public"`
	Special []*Discount `json:"special"`
}

// DiscountQuote is the read-only outcome of validating a code against an amount.
type DiscountQuote struct {
	Code          string               `json:"code"`
	Type          pricing.DiscountType `json:"type"`
	Value         decimal.Decimal      `json:"value"`
	IsSpecial     bool                 `json:"is_special"`
	BaseAmount    int64                `json:"base_amount"`
	AmountApplied int64                `json:"amount_applied"`
}
