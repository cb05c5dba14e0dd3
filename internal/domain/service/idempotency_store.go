package service

import (
	"context"
	"time"

	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// ErrIdempotencyKeyInFlight is returned when a key is reserved but has no result yet.
var ErrIdempotencyKeyInFlight = errors.New("idempotency key is in flight")

// IdempotencyStore remembers which order a checkout key produced.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns the stored order ID when the key already
	// completed, ErrIdempotencyKeyInFlight while another request holds it, and
	// (uuid.Nil, nil) when the caller now owns the key.
	Reserve(ctx context.Context, key string, ttl time.Duration) (uuid.UUID, error)

	// Complete stores the order produced under key.
	Complete(ctx context.Context, key string, orderID uuid.UUID, ttl time.Duration) error

	// Release drops a reservation after a failed checkout so the client may retry.
	Release(ctx context.Context, key string) error
}
