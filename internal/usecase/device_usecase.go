package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	DeviceID string
	FCMToken string
	Platform entity.DevicePlatform
}

// DeviceUsecase defines the interface for notification device management
type DeviceUsecase interface {
	// RegisterDevice registers a new device or refreshes the token of an existing one
	RegisterDevice(ctx context.Context, userID uuid.UUID, info *DeviceInfo) (*entity.UserDevice, error)

	// ListDevices lists the user's devices, newest first
	ListDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// DeactivateDevice stops notifications to one of the user's devices
	DeactivateDevice(ctx context.Context, userID uuid.UUID, deviceID string) error
}
