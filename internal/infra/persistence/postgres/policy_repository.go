package postgres

import (
	"context"
	"encoding/json"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *gorm.DB) repository.PolicyRepository {
	return &policyRepository{db: db}
}

// Create persists a new document version
func (repo *policyRepository) Create(ctx context.Context, policy *entity.VersionedPolicy) error {
	policyModel := fromPolicyDomain(policy)

	if err := repo.db.WithContext(ctx).Create(policyModel).Error; err != nil {
		if isUniqueViolationOn(err, activePolicyIndex) {
			return repository.ErrActivePolicyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create policy")
	}

	policy.CreatedAt = policyModel.CreatedAt
	policy.UpdatedAt = policyModel.UpdatedAt

	return nil
}

// FindByID retrieves one document version
func (repo *policyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VersionedPolicy, error) {
	var policyModel model.PolicyModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&policyModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPolicyNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find policy")
	}

	return toPolicyDomain(&policyModel), nil
}

// FindActive retrieves the active document of a scope
func (repo *policyRepository) FindActive(ctx context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error) {
	return repo.findActive(repo.db.WithContext(ctx), scope)
}

// FindActiveForUpdate retrieves the active document of a scope and locks its row
func (repo *policyRepository) FindActiveForUpdate(ctx context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error) {
	return repo.findActive(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), scope)
}

func (repo *policyRepository) findActive(db *gorm.DB, scope entity.PolicyScope) (*entity.VersionedPolicy, error) {
	var policyModel model.PolicyModel
	err := db.
		Where("scope_id = ? AND is_active = ?", scope.String(), true).
		First(&policyModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPolicyNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find active policy")
	}

	return toPolicyDomain(&policyModel), nil
}

// LockScope locks every document row of a scope
func (repo *policyRepository) LockScope(ctx context.Context, scope entity.PolicyScope) error {
	var ids []uuid.UUID
	err := repo.db.WithContext(ctx).
		Model(&model.PolicyModel{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("scope_id = ?", scope.String()).
		Pluck("id", &ids).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to lock policy scope")
	}

	return nil
}

// CountByScope returns how many documents a scope holds
func (repo *policyRepository) CountByScope(ctx context.Context, scope entity.PolicyScope) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.PolicyModel{}).
		Where("scope_id = ?", scope.String()).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count policies")
	}

	return count, nil
}

// ListByScope lists a scope's documents, newest version first
func (repo *policyRepository) ListByScope(ctx context.Context, scope entity.PolicyScope, offset, limit int) ([]*entity.VersionedPolicy, int64, error) {
	base := repo.db.WithContext(ctx).Model(&model.PolicyModel{}).Where("scope_id = ?", scope.String())

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count policies")
	}

	var policyModels []*model.PolicyModel
	err := base.Session(&gorm.Session{}).
		Order("version DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&policyModels).Error
	if err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list policies")
	}

	policies := make([]*entity.VersionedPolicy, len(policyModels))
	for i, policyModel := range policyModels {
		policies[i] = toPolicyDomain(policyModel)
	}

	return policies, total, nil
}

// Activate marks one document active
func (repo *policyRepository) Activate(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PolicyModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":    true,
			"activated_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		if isUniqueViolationOn(result.Error, activePolicyIndex) {
			return repository.ErrActivePolicyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to activate policy")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPolicyNotFound
	}

	return nil
}

// Deactivate marks one document inactive
func (repo *policyRepository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.PolicyModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": at,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to deactivate policy")
	}

	return nil
}

// DeactivateScope deactivates every active document of a scope
func (repo *policyRepository) DeactivateScope(ctx context.Context, scope entity.PolicyScope, at time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.PolicyModel{}).
		Where("scope_id = ? AND is_active = ?", scope.String(), true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate policy scope")
	}

	return result.RowsAffected, nil
}

// Delete removes a document version
func (repo *policyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PolicyModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete policy")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPolicyNotFound
	}

	return nil
}

// Helper functions to convert between domain entities and GORM models

func toPolicyDomain(data *model.PolicyModel) *entity.VersionedPolicy {
	if data == nil {
		return nil
	}

	return &entity.VersionedPolicy{
		ID:             data.ID,
		Kind:           entity.PolicyKind(data.Kind),
		ScopeID:        entity.PolicyScope(data.ScopeID),
		Version:        entity.PolicyVersion(data.Version),
		EffectiveFrom:  data.EffectiveFrom,
		EffectiveTo:    data.EffectiveTo,
		IsActive:       data.IsActive,
		Payload:        json.RawMessage(data.Payload),
		ChangesSummary: data.ChangesSummary,
		CreatedBy:      data.CreatedBy,
		ActivatedAt:    data.ActivatedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromPolicyDomain(data *entity.VersionedPolicy) *model.PolicyModel {
	if data == nil {
		return nil
	}

	return &model.PolicyModel{
		ID:             data.ID,
		Kind:           string(data.Kind),
		ScopeID:        data.ScopeID.String(),
		Version:        int(data.Version),
		EffectiveFrom:  data.EffectiveFrom,
		EffectiveTo:    data.EffectiveTo,
		IsActive:       data.IsActive,
		Payload:        datatypes.JSON(data.Payload),
		ChangesSummary: data.ChangesSummary,
		CreatedBy:      data.CreatedBy,
		ActivatedAt:    data.ActivatedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
