package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

type privacyTypeRepository struct {
	acc accessor
}

func (repo *privacyTypeRepository) Create(_ context.Context, privacyType *entity.PrivacyType) error {
	return repo.acc.update(func(s *state) error {
		for _, existing := range s.privacyTypes {
			if existing.Name == privacyType.Name {
				return repository.ErrDuplicatePrivacyType
			}
		}
		now := time.Now()
		if privacyType.CreatedAt.IsZero() {
			privacyType.CreatedAt = now
		}
		if privacyType.UpdatedAt.IsZero() {
			privacyType.UpdatedAt = now
		}
		s.privacyTypes[privacyType.ID] = *privacyType

		return nil
	})
}

func (repo *privacyTypeRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.PrivacyType, error) {
	var found *entity.PrivacyType
	err := repo.acc.view(func(s *state) error {
		privacyType, ok := s.privacyTypes[id]
		if !ok {
			return repository.ErrPrivacyTypeNotFound
		}
		found = &privacyType

		return nil
	})

	return found, err
}

func (repo *privacyTypeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PrivacyType, error) {
	return repo.FindByID(ctx, id)
}

func (repo *privacyTypeRepository) List(_ context.Context, onlyActive bool) ([]*entity.PrivacyType, error) {
	var rows []*entity.PrivacyType
	err := repo.acc.view(func(s *state) error {
		for _, privacyType := range s.privacyTypes {
			if onlyActive && !privacyType.IsActive {
				continue
			}
			rows = append(rows, &privacyType)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b *entity.PrivacyType) int {
		return strings.Compare(a.Name, b.Name)
	})

	return rows, nil
}

func (repo *privacyTypeRepository) SetActive(_ context.Context, id uuid.UUID, active bool, at time.Time) error {
	return repo.acc.update(func(s *state) error {
		privacyType, ok := s.privacyTypes[id]
		if !ok {
			return repository.ErrPrivacyTypeNotFound
		}
		privacyType.IsActive = active
		privacyType.UpdatedAt = at
		s.privacyTypes[id] = privacyType

		return nil
	})
}
