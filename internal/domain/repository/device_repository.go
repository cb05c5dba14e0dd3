package repository

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when a user has no device with the given device id.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository defines the interface for notification device storage.
type DeviceRepository interface {
	// Upsert stores a device keyed by (user, device id), replacing the token and
	// reactivating it when the pair already exists.
	Upsert(ctx context.Context, device *entity.UserDevice) error

	// FindByUser lists every device of a user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// FindActiveByUsers lists the active devices of the given users.
	FindActiveByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error)

	// Deactivate switches one of the user's devices off.
	Deactivate(ctx context.Context, userID uuid.UUID, deviceID string) error

	// DeactivateTokens switches off every device holding one of the tokens.
	DeactivateTokens(ctx context.Context, tokens []string) (int64, error)
}
