package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

type deviceRepository struct {
	acc accessor
}

// NewDeviceRepository returns a store-bound device repository.
func NewDeviceRepository(store *Store) repository.DeviceRepository {
	return &deviceRepository{acc: store}
}

func (repo *deviceRepository) Upsert(_ context.Context, device *entity.UserDevice) error {
	return repo.acc.update(func(s *state) error {
		now := time.Now()
		for id, existing := range s.devices {
			if existing.UserID != device.UserID || existing.DeviceID != device.DeviceID {
				continue
			}
			existing.FCMToken = device.FCMToken
			existing.Platform = device.Platform
			existing.IsActive = true
			existing.UpdatedAt = now
			s.devices[id] = existing
			*device = existing

			return nil
		}

		if device.ID == uuid.Nil {
			device.ID = uuid.New()
		}
		device.IsActive = true
		device.CreatedAt = now
		device.UpdatedAt = now
		s.devices[device.ID] = *device

		return nil
	})
}

func (repo *deviceRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	rows := make([]*entity.UserDevice, 0)
	err := repo.acc.view(func(s *state) error {
		for _, device := range s.devices {
			if device.UserID == userID {
				rows = append(rows, &device)
			}
		}

		return nil
	})
	slices.SortFunc(rows, func(a, b *entity.UserDevice) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.DeviceID, b.DeviceID))
	})

	return rows, err
}

func (repo *deviceRepository) FindActiveByUsers(_ context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error) {
	rows := make([]*entity.UserDevice, 0)
	err := repo.acc.view(func(s *state) error {
		for _, device := range s.devices {
			if device.IsActive && slices.Contains(userIDs, device.UserID) {
				rows = append(rows, &device)
			}
		}

		return nil
	})
	slices.SortFunc(rows, func(a, b *entity.UserDevice) int {
		return cmp.Compare(a.FCMToken, b.FCMToken)
	})

	return rows, err
}

func (repo *deviceRepository) Deactivate(_ context.Context, userID uuid.UUID, deviceID string) error {
	return repo.acc.update(func(s *state) error {
		for id, device := range s.devices {
			if device.UserID == userID && device.DeviceID == deviceID {
				device.IsActive = false
				device.UpdatedAt = time.Now()
				s.devices[id] = device

				return nil
			}
		}

		return repository.ErrDeviceNotFound
	})
}

func (repo *deviceRepository) DeactivateTokens(_ context.Context, tokens []string) (int64, error) {
	var changed int64
	err := repo.acc.update(func(s *state) error {
		for id, device := range s.devices {
			if !device.IsActive || !slices.Contains(tokens, device.FCMToken) {
				continue
			}
			device.IsActive = false
			device.UpdatedAt = time.Now()
			s.devices[id] = device
			changed++
		}

		return nil
	})

	return changed, err
}
