package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const maxDeviceFieldLength = 255

type deviceService struct {
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
	now        func() time.Time
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService creates a new device service instance
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		logger:     params.Logger,
		now:        time.Now,
	}
}

func (srv *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterDevice registers a new device or updates the token of an existing one
func (srv *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, info *usecase.DeviceInfo) (*entity.UserDevice, error) {
	deviceID := strings.TrimSpace(info.DeviceID)
	token := strings.TrimSpace(info.FCMToken)
	switch {
	case deviceID == "" || len(deviceID) > maxDeviceFieldLength:
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "device id is required and at most 255 characters")
	case token == "":
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "fcm token is required")
	case !info.Platform.IsValid():
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown platform %q", info.Platform)
	}

	now := srv.now()
	device := &entity.UserDevice{
		ID:        uuid.New(),
		UserID:    userID,
		FCMToken:  token,
		DeviceID:  deviceID,
		Platform:  info.Platform,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := srv.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, wrapRepoError(err, "failed to register device")
	}

	srv.log(ctx).Info("Device registered",
		slog.String("user_id", userID.String()),
		slog.String("device_id", deviceID),
		slog.String("platform", string(info.Platform)),
	)

	return device, nil
}

// ListDevices lists every device of the user
func (srv *deviceService) ListDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	devices, err := srv.deviceRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list devices")
	}

	return devices, nil
}

// DeactivateDevice deactivates a device (soft delete)
func (srv *deviceService) DeactivateDevice(ctx context.Context, userID uuid.UUID, deviceID string) error {
	if err := srv.deviceRepo.Deactivate(ctx, userID, deviceID); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return errors.Wrapf(domainerrors.ErrDeviceNotFound, "device %q", deviceID)
		}

		return wrapRepoError(err, "failed to deactivate device")
	}

	return nil
}
