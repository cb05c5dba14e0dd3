package entity

import (
	"testing"
	"time"

	"rentalhub/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDiscountCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeDiscountCode("  summer10 "))
}

func TestDiscount_Ineligibility(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	itemID := uuid.New()
	limit := 2

	base := func() *Discount {
		return &Discount{
			Code:           "SUMMER10",
			Type:           pricing.DiscountTypePercent,
			Value:          decimal.NewFromInt(10),
			MinOrderAmount: 10_000,
			StartAt:        now.Add(-time.Hour),
			EndAt:          now.Add(time.Hour),
			UsageLimit:     &limit,
		}
	}
	subject := DiscountSubject{OwnerID: &ownerID, ItemID: &itemID}

	assert.Equal(t, IneligibleReason(""), base().Ineligibility(now, 10_000, subject))

	d := base()
	d.StartAt = now.Add(time.Minute)
	assert.Equal(t, IneligibleNotStarted, d.Ineligibility(now, 10_000, subject))

	d = base()
	d.EndAt = now
	assert.Equal(t, IneligibleReason(""), d.Ineligibility(now, 10_000, subject))
	assert.True(t, d.InWindow(now))

	d = base()
	d.EndAt = now.Add(-time.Nanosecond)
	assert.Equal(t, IneligibleExpired, d.Ineligibility(now, 10_000, subject))
	assert.False(t, d.InWindow(now))

	d = base()
	d.UsedCount = 2
	assert.Equal(t, IneligibleExhausted, d.Ineligibility(now, 10_000, subject))

	assert.Equal(t, IneligibleBelowMinimum, base().Ineligibility(now, 9_999, subject))

	d = base()
	other := uuid.New()
	d.ItemID = &other
	assert.Equal(t, IneligibleScopeMismatch, d.Ineligibility(now, 10_000, subject))

	d = base()
	d.OwnerID = &ownerID
	assert.Equal(t, IneligibleScopeMismatch, d.Ineligibility(now, 10_000, DiscountSubject{}))
	assert.True(t, DiscountSubject{OwnerID: &ownerID}.Matches(d))
	assert.False(t, DiscountSubject{OwnerID: &other}.Matches(d))
}

func TestDiscount_ExhaustedWithoutLimit(t *testing.T) {
	d := &Discount{UsedCount: 1_000_000}
	assert.False(t, d.Exhausted())
}

func TestOrder_DepositPerUnitTruncates(t *testing.T) {
	o := &Order{DepositAmount: 10_000, UnitCount: 3}
	assert.Equal(t, int64(3_333), o.DepositPerUnit())

	o.UnitCount = 0
	assert.Equal(t, int64(0), o.DepositPerUnit())
}

func TestOrder_PartyOf(t *testing.T) {
	o := &Order{RenterID: uuid.New(), OwnerID: uuid.New()}

	party, ok := o.PartyOf(o.RenterID)
	assert.True(t, ok)
	assert.Equal(t, PartyRenter, party)

	party, ok = o.PartyOf(o.OwnerID)
	assert.True(t, ok)
	assert.Equal(t, PartyOwner, party)

	_, ok = o.PartyOf(uuid.New())
	assert.False(t, ok)
}

func TestOrderDiscount_Codes(t *testing.T) {
	assert.Empty(t, OrderDiscount{}.Codes())
	assert.Equal(t, []string{"A", "B"}, OrderDiscount{Code: "A", SecondaryCode: "B"}.Codes())
	assert.Equal(t, []string{"B"}, OrderDiscount{SecondaryCode: "B"}.Codes())
}
