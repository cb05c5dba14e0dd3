package repository

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/errors"
)

// Domain-specific errors for discount persistence.
var (
	// ErrDiscountNotFound is returned when no discount has the given code.
	ErrDiscountNotFound = errors.New("discount not found")
	// ErrDuplicateDiscountCode is returned when the code is already taken.
	ErrDuplicateDiscountCode = errors.New("discount code already exists")
	// ErrDiscountUsageExhausted is returned when the conditional usage increment matched no row.
	ErrDiscountUsageExhausted = errors.New("discount usage limit reached")
)

// DiscountAvailabilityFilter selects codes shown at checkout.
type DiscountAvailabilityFilter struct {
	Now       time.Time
	IsSpecial bool
	Subject   entity.DiscountSubject
	Offset    int
	Limit     int
}

// DiscountRepository defines the interface for discount codes.
type DiscountRepository interface {
	// Create persists a new discount. Codes must already be normalised.
	Create(ctx context.Context, discount *entity.Discount) error

	// FindByCode retrieves a discount by its normalised code.
	FindByCode(ctx context.Context, code string) (*entity.Discount, error)

	// ListAvailable returns codes whose window contains Now, that are not exhausted
	// and whose owner/item scope matches the subject.
	ListAvailable(ctx context.Context, filter DiscountAvailabilityFilter) ([]*entity.Discount, error)

	// List returns every discount, newest first.
	List(ctx context.Context, offset, limit int) ([]*entity.Discount, int64, error)

	// IncrementUsage adds one use in a single conditional update that only matches while
	// used_count < usage_limit (or the limit is unset). Returns ErrDiscountUsageExhausted
	// when the code exists but no row matched.
	IncrementUsage(ctx context.Context, code string) error

	// DecrementUsage removes one use; the counter never goes below zero.
	DecrementUsage(ctx context.Context, code string) error
}
