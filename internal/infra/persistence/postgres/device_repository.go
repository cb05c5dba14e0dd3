package postgres

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// Upsert inserts the device or, for a known (user, device id), refreshes its token.
func (repo *deviceRepository) Upsert(ctx context.Context, device *entity.UserDevice) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.IsActive = true
	deviceM := fromDeviceDomain(device)

	err := repo.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"fcm_token", "platform", "is_active", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(deviceM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert device")
	}

	*device = *toDeviceDomain(deviceM)

	return nil
}

// FindByUser lists every device of a user, newest first.
func (repo *deviceRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var deviceModels []*model.UserDeviceModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&deviceModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find devices by user")
	}

	return toDeviceDomains(deviceModels), nil
}

// FindActiveByUsers lists the active devices of the given users.
func (repo *deviceRepository) FindActiveByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error) {
	if len(userIDs) == 0 {
		return []*entity.UserDevice{}, nil
	}

	var deviceModels []*model.UserDeviceModel
	if err := repo.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Order("fcm_token ASC").
		Find(&deviceModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find active devices")
	}

	return toDeviceDomains(deviceModels), nil
}

// Deactivate switches one of the user's devices off.
func (repo *deviceRepository) Deactivate(ctx context.Context, userID uuid.UUID, deviceID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserDeviceModel{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate device")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// DeactivateTokens switches off every active device holding one of the tokens.
func (repo *deviceRepository) DeactivateTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserDeviceModel{}).
		Where("fcm_token IN ? AND is_active = ?", tokens, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate device tokens")
	}

	return result.RowsAffected, nil
}

func toDeviceDomains(deviceModels []*model.UserDeviceModel) []*entity.UserDevice {
	devices := make([]*entity.UserDevice, 0, len(deviceModels))
	for _, deviceM := range deviceModels {
		devices = append(devices, toDeviceDomain(deviceM))
	}

	return devices
}

func toDeviceDomain(data *model.UserDeviceModel) *entity.UserDevice {
	if data == nil {
		return nil
	}

	return &entity.UserDevice{
		ID:        data.ID,
		UserID:    data.UserID,
		FCMToken:  data.FCMToken,
		DeviceID:  data.DeviceID,
		Platform:  entity.DevicePlatform(data.Platform),
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromDeviceDomain(data *entity.UserDevice) *model.UserDeviceModel {
	if data == nil {
		return nil
	}

	return &model.UserDeviceModel{
		ID:        data.ID,
		UserID:    data.UserID,
		FCMToken:  data.FCMToken,
		DeviceID:  data.DeviceID,
		Platform:  string(data.Platform),
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
