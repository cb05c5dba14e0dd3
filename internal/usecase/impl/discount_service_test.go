package impl

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/memory"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountService_CreateDiscount_NormalisesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createDiscount(t, usecase.CreateDiscountInput{
		Code:  " spring10 ",
		Type:  pricing.DiscountTypePercent,
		Value: decimal.NewFromInt(10),
	})
	assert.Equal(t, "SPRING10", created.Code)

	got, err := env.discounts.GetDiscount(ctx, "Spring10")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = env.discounts.CreateDiscount(ctx, &usecase.CreateDiscountInput{
		Code:    "SPRING10",
		Type:    pricing.DiscountTypeFixed,
		Value:   decimal.NewFromInt(100),
		StartAt: testNow,
		EndAt:   testNow.Add(time.Hour),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrDiscountCodeTaken))
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestDiscountService_CreateDiscount_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := func() usecase.CreateDiscountInput {
		return usecase.CreateDiscountInput{
			Code:    "OK",
			Type:    pricing.DiscountTypePercent,
			Value:   decimal.NewFromInt(10),
			StartAt: testNow,
			EndAt:   testNow.Add(time.Hour),
		}
	}

	tests := []struct {
		name   string
		modify func(in *usecase.CreateDiscountInput)
	}{
		{"empty code", func(in *usecase.CreateDiscountInput) { in.Code = "  " }},
		{"unknown type", func(in *usecase.CreateDiscountInput) { in.Type = "bogus" }},
		{"percent above 100", func(in *usecase.CreateDiscountInput) { in.Value = decimal.NewFromInt(150) }},
		{"negative value", func(in *usecase.CreateDiscountInput) { in.Value = decimal.NewFromInt(-1) }},
		{"window reversed", func(in *usecase.CreateDiscountInput) { in.EndAt = in.StartAt }},
		{"zero usage limit", func(in *usecase.CreateDiscountInput) { in.UsageLimit = ptr(0) }},
		{"negative minimum", func(in *usecase.CreateDiscountInput) { in.MinOrderAmount = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.modify(&input)
			_, err := env.discounts.CreateDiscount(ctx, &input)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "got %v", err)
		})
	}
}

func TestDiscountService_ValidateDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := uuid.New()

	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:              "TEN",
		Type:              pricing.DiscountTypePercent,
		Value:             decimal.NewFromInt(10),
		MaxDiscountAmount: ptr(int64(5_000)),
		MinOrderAmount:    20_000,
	})
	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:      "ITEMONLY",
		Type:      pricing.DiscountTypeFixed,
		Value:     decimal.NewFromInt(1_000),
		IsSpecial: true,
		ItemID:    &itemID,
	})
	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:    "LATER",
		Type:    pricing.DiscountTypeFixed,
		Value:   decimal.NewFromInt(1_000),
		StartAt: testNow.Add(time.Hour),
	})
	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:       "USEDUP",
		Type:       pricing.DiscountTypeFixed,
		Value:      decimal.NewFromInt(1_000),
		UsageLimit: ptr(1),
	})
	require.NoError(t, memory.NewDiscountRepository(env.store).IncrementUsage(ctx, "USEDUP"))

	quote, err := env.discounts.ValidateDiscount(ctx, &usecase.ValidateDiscountInput{Code: "ten", BaseAmount: 100_000})
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), quote.AmountApplied)
	assert.Equal(t, "TEN", quote.Code)

	quote, err = env.discounts.ValidateDiscount(ctx, &usecase.ValidateDiscountInput{Code: "ITEMONLY", BaseAmount: 100, ItemID: &itemID})
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), quote.AmountApplied)
	assert.True(t, quote.IsSpecial)

	ineligible := []struct {
		name   string
		input  usecase.ValidateDiscountInput
		reason entity.IneligibleReason
	}{
		{"below minimum", usecase.ValidateDiscountInput{Code: "TEN", BaseAmount: 19_999}, entity.IneligibleBelowMinimum},
		{"other item", usecase.ValidateDiscountInput{Code: "ITEMONLY", BaseAmount: 100, ItemID: ptr(uuid.New())}, entity.IneligibleScopeMismatch},
		{"unknown item", usecase.ValidateDiscountInput{Code: "ITEMONLY", BaseAmount: 100}, entity.IneligibleScopeMismatch},
		{"not started", usecase.ValidateDiscountInput{Code: "LATER", BaseAmount: 100}, entity.IneligibleNotStarted},
		{"exhausted", usecase.ValidateDiscountInput{Code: "USEDUP", BaseAmount: 100}, entity.IneligibleExhausted},
	}
	for _, tt := range ineligible {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.discounts.ValidateDiscount(ctx, &tt.input)
			require.True(t, errors.Is(err, domainerrors.ErrDiscountIneligible), "got %v", err)
			appErr, ok := domainerrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, string(tt.reason), appErr.Details())
		})
	}

	_, err = env.discounts.ValidateDiscount(ctx, &usecase.ValidateDiscountInput{Code: "NOPE", BaseAmount: 100})
	assert.True(t, errors.Is(err, domainerrors.ErrDiscountNotFound))
}

func TestDiscountService_ListAvailable_SplitsPublicAndSpecial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerID := uuid.New()

	env.createDiscount(t, usecase.CreateDiscountInput{Code: "PUBLIC", Type: pricing.DiscountTypeFixed, Value: decimal.NewFromInt(100)})
	env.createDiscount(t, usecase.CreateDiscountInput{Code: "MINE", Type: pricing.DiscountTypeFixed, Value: decimal.NewFromInt(100), IsSpecial: true, OwnerID: &ownerID})
	env.createDiscount(t, usecase.CreateDiscountInput{Code: "THEIRS", Type: pricing.DiscountTypeFixed, Value: decimal.NewFromInt(100), IsSpecial: true, OwnerID: ptr(uuid.New())})
	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:    "OLD",
		Type:    pricing.DiscountTypeFixed,
		Value:   decimal.NewFromInt(100),
		StartAt: testNow.Add(-48 * time.Hour),
		EndAt:   testNow.Add(-24 * time.Hour),
	})

	available, err := env.discounts.ListAvailable(ctx, entity.DiscountSubject{OwnerID: &ownerID}, usecase.PageRequest{})
	require.NoError(t, err)
	require.Len(t, available.Public, 1)
	assert.Equal(t, "PUBLIC", available.Public[0].Code)
	require.Len(t, available.Special, 1)
	assert.Equal(t, "MINE", available.Special[0].Code)

	all, err := env.discounts.ListDiscounts(ctx, usecase.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Len(t, all.Items, 2)
}

func TestDiscountService_ValidateDiscount_EndOfWindowIsUsable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createDiscount(t, usecase.CreateDiscountInput{
		Code:    "LASTCALL",
		Type:    pricing.DiscountTypeFixed,
		Value:   decimal.NewFromInt(1_000),
		StartAt: testNow.Add(-time.Hour),
		EndAt:   testNow,
	})

	quote, err := env.discounts.ValidateDiscount(ctx, &usecase.ValidateDiscountInput{Code: "LASTCALL", BaseAmount: 100_000})
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), quote.AmountApplied)

	available, err := env.discounts.ListAvailable(ctx, entity.DiscountSubject{}, usecase.PageRequest{})
	require.NoError(t, err)
	codes := make([]string, 0, len(available.Public))
	for _, d := range available.Public {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, "LASTCALL")
}
