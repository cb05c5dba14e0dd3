package postgres

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type privacyTypeRepository struct {
	db *gorm.DB
}

// NewPrivacyTypeRepository creates a new privacy type repository
func NewPrivacyTypeRepository(db *gorm.DB) repository.PrivacyTypeRepository {
	return &privacyTypeRepository{db: db}
}

// Create persists a new privacy type
func (repo *privacyTypeRepository) Create(ctx context.Context, privacyType *entity.PrivacyType) error {
	privacyTypeModel := fromPrivacyTypeDomain(privacyType)

	if err := repo.db.WithContext(ctx).Create(privacyTypeModel).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePrivacyType
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create privacy type")
	}

	privacyType.CreatedAt = privacyTypeModel.CreatedAt
	privacyType.UpdatedAt = privacyTypeModel.UpdatedAt

	return nil
}

// FindByID retrieves a privacy type
func (repo *privacyTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PrivacyType, error) {
	return repo.findByID(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a privacy type and locks its row
func (repo *privacyTypeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PrivacyType, error) {
	return repo.findByID(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (repo *privacyTypeRepository) findByID(db *gorm.DB, id uuid.UUID) (*entity.PrivacyType, error) {
	var privacyTypeModel model.PrivacyTypeModel
	if err := db.Where("id = ?", id).First(&privacyTypeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPrivacyTypeNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find privacy type")
	}

	return toPrivacyTypeDomain(&privacyTypeModel), nil
}

// List returns privacy types ordered by name
func (repo *privacyTypeRepository) List(ctx context.Context, onlyActive bool) ([]*entity.PrivacyType, error) {
	query := repo.db.WithContext(ctx).Order("name ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var privacyTypeModels []*model.PrivacyTypeModel
	if err := query.Find(&privacyTypeModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list privacy types")
	}

	privacyTypes := make([]*entity.PrivacyType, len(privacyTypeModels))
	for i, privacyTypeModel := range privacyTypeModels {
		privacyTypes[i] = toPrivacyTypeDomain(privacyTypeModel)
	}

	return privacyTypes, nil
}

// SetActive flips the active flag
func (repo *privacyTypeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PrivacyTypeModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update privacy type")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPrivacyTypeNotFound
	}

	return nil
}

func toPrivacyTypeDomain(data *model.PrivacyTypeModel) *entity.PrivacyType {
	if data == nil {
		return nil
	}

	return &entity.PrivacyType{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		IsActive:    data.IsActive,
		CreatedBy:   data.CreatedBy,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromPrivacyTypeDomain(data *entity.PrivacyType) *model.PrivacyTypeModel {
	if data == nil {
		return nil
	}

	return &model.PrivacyTypeModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		IsActive:    data.IsActive,
		CreatedBy:   data.CreatedBy,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
