package impl

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/memory"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeviceService() usecase.DeviceUsecase {
	return NewDeviceService(DeviceServiceParams{
		DeviceRepo: memory.NewDeviceRepository(memory.NewStore()),
		Logger:     newDiscardLogger(),
	})
}

func TestDeviceService_RegisterDevice_RefreshesExistingDevice(t *testing.T) {
	devices := newTestDeviceService()
	ctx := context.Background()
	userID := uuid.New()

	first, err := devices.RegisterDevice(ctx, userID, &usecase.DeviceInfo{DeviceID: "phone", FCMToken: "token-1", Platform: entity.PlatformIOS})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	require.NoError(t, devices.DeactivateDevice(ctx, userID, "phone"))

	second, err := devices.RegisterDevice(ctx, userID, &usecase.DeviceInfo{DeviceID: " phone ", FCMToken: "token-2", Platform: entity.PlatformIOS})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "token-2", second.FCMToken)
	assert.True(t, second.IsActive)

	listed, err := devices.ListDevices(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "token-2", listed[0].FCMToken)

	others, err := devices.ListDevices(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestDeviceService_RegisterDevice_Validation(t *testing.T) {
	devices := newTestDeviceService()

	tests := []struct {
		name string
		info usecase.DeviceInfo
	}{
		{"missing device id", usecase.DeviceInfo{FCMToken: "t", Platform: entity.PlatformWeb}},
		{"missing token", usecase.DeviceInfo{DeviceID: "d", FCMToken: "  ", Platform: entity.PlatformWeb}},
		{"unknown platform", usecase.DeviceInfo{DeviceID: "d", FCMToken: "t", Platform: "symbian"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := devices.RegisterDevice(context.Background(), uuid.New(), &tt.info)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestDeviceService_DeactivateDevice_OnlyOwnDevices(t *testing.T) {
	devices := newTestDeviceService()
	ctx := context.Background()
	owner := uuid.New()

	_, err := devices.RegisterDevice(ctx, owner, &usecase.DeviceInfo{DeviceID: "tablet", FCMToken: "t", Platform: entity.PlatformAndroid})
	require.NoError(t, err)

	err = devices.DeactivateDevice(ctx, uuid.New(), "tablet")
	assert.True(t, errors.Is(err, domainerrors.ErrDeviceNotFound))
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	listed, err := devices.ListDevices(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsActive)
}
