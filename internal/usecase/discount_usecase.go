package usecase

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDiscountInput is a new discount code.
type CreateDiscountInput struct {
	Code              string
	Description       string
	Type              pricing.DiscountType
	Value             decimal.Decimal
	MaxDiscountAmount *int64
	MinOrderAmount    int64
	StartAt           time.Time
	EndAt             time.Time
	UsageLimit        *int
	IsSpecial         bool
	OwnerID           *uuid.UUID
	ItemID            *uuid.UUID
	CreatedBy         uuid.UUID
}

// ValidateDiscountInput asks what a code would take off an amount.
type ValidateDiscountInput struct {
	Code       string
	BaseAmount int64
	OwnerID    *uuid.UUID
	ItemID     *uuid.UUID
}

// DiscountUsecase defines the interface for the discount catalog
type DiscountUsecase interface {
	// ListAvailable returns the public and special codes usable right now for the subject
	ListAvailable(ctx context.Context, subject entity.DiscountSubject, page PageRequest) (*entity.AvailableDiscounts, error)

	// ValidateDiscount quotes a code without consuming it
	ValidateDiscount(ctx context.Context, input *ValidateDiscountInput) (*entity.DiscountQuote, error)

	// CreateDiscount stores a new code
	CreateDiscount(ctx context.Context, input *CreateDiscountInput) (*entity.Discount, error)

	// GetDiscount returns a code
	GetDiscount(ctx context.Context, code string) (*entity.Discount, error)

	// ListDiscounts lists every code, newest first
	ListDiscounts(ctx context.Context, page PageRequest) (*Page[*entity.Discount], error)
}
