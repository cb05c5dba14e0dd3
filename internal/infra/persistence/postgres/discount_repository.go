package postgres

import (
	"context"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) repository.DiscountRepository {
	return &discountRepository{db: db}
}

// Create persists a new discount
func (repo *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	discountModel := fromDiscountDomain(discount)

	if err := repo.db.WithContext(ctx).Create(discountModel).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateDiscountCode
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create discount")
	}

	discount.CreatedAt = discountModel.CreatedAt
	discount.UpdatedAt = discountModel.UpdatedAt

	return nil
}

// FindByCode retrieves a discount by its normalised code
func (repo *discountRepository) FindByCode(ctx context.Context, code string) (*entity.Discount, error) {
	var discountModel model.DiscountModel
	if err := repo.db.WithContext(ctx).Where("code = ?", code).First(&discountModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDiscountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find discount")
	}

	return toDiscountDomain(&discountModel), nil
}

// ListAvailable returns usable codes for a checkout subject
func (repo *discountRepository) ListAvailable(ctx context.Context, filter repository.DiscountAvailabilityFilter) ([]*entity.Discount, error) {
	query := repo.db.WithContext(ctx).
		Where("is_special = ?", filter.IsSpecial).
		Where("start_at <= ? AND end_at >= ?", filter.Now, filter.Now).
		Where("usage_limit IS NULL OR used_count < usage_limit")

	if filter.Subject.OwnerID != nil {
		query = query.Where("owner_id IS NULL OR owner_id = ?", *filter.Subject.OwnerID)
	} else {
		query = query.Where("owner_id IS NULL")
	}
	if filter.Subject.ItemID != nil {
		query = query.Where("item_id IS NULL OR item_id = ?", *filter.Subject.ItemID)
	} else {
		query = query.Where("item_id IS NULL")
	}

	var discountModels []*model.DiscountModel
	err := query.
		Order("end_at ASC").
		Order("code ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&discountModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list available discounts")
	}

	return toDiscountDomains(discountModels), nil
}

// List returns every discount, newest first
func (repo *discountRepository) List(ctx context.Context, offset, limit int) ([]*entity.Discount, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.DiscountModel{}).Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count discounts")
	}

	var discountModels []*model.DiscountModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&discountModels).Error
	if err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list discounts")
	}

	return toDiscountDomains(discountModels), total, nil
}

// IncrementUsage consumes one use with a single conditional update
func (repo *discountRepository) IncrementUsage(ctx context.Context, code string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DiscountModel{}).
		Where("code = ?", code).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrDiscountUsageExhausted
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to consume discount")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows: either the code is gone or its limit is reached.
	if _, err := repo.FindByCode(ctx, code); err != nil {
		return err
	}

	return repository.ErrDiscountUsageExhausted
}

// DecrementUsage releases one use without going below zero
func (repo *discountRepository) DecrementUsage(ctx context.Context, code string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DiscountModel{}).
		Where("code = ? AND used_count > 0", code).
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count - 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to release discount")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	_, err := repo.FindByCode(ctx, code)

	return err
}

func toDiscountDomains(discountModels []*model.DiscountModel) []*entity.Discount {
	discounts := make([]*entity.Discount, len(discountModels))
	for i, discountModel := range discountModels {
		discounts[i] = toDiscountDomain(discountModel)
	}

	return discounts
}

func toDiscountDomain(data *model.DiscountModel) *entity.Discount {
	if data == nil {
		return nil
	}

	return &entity.Discount{
		ID:                data.ID,
		Code:              data.Code,
		Description:       data.Description,
		Type:              pricing.DiscountType(data.Type),
		Value:             data.Value,
		MaxDiscountAmount: data.MaxDiscountAmount,
		MinOrderAmount:    data.MinOrderAmount,
		StartAt:           data.StartAt,
		EndAt:             data.EndAt,
		UsageLimit:        data.UsageLimit,
		UsedCount:         data.UsedCount,
		IsSpecial:         data.IsSpecial,
		OwnerID:           data.OwnerID,
		ItemID:            data.ItemID,
		CreatedBy:         data.CreatedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromDiscountDomain(data *entity.Discount) *model.DiscountModel {
	if data == nil {
		return nil
	}

	return &model.DiscountModel{
		ID:                data.ID,
		Code:              data.Code,
		Description:       data.Description,
		Type:              string(data.Type),
		Value:             data.Value,
		MaxDiscountAmount: data.MaxDiscountAmount,
		MinOrderAmount:    data.MinOrderAmount,
		StartAt:           data.StartAt,
		EndAt:             data.EndAt,
		UsageLimit:        data.UsageLimit,
		UsedCount:         data.UsedCount,
		IsSpecial:         data.IsSpecial,
		OwnerID:           data.OwnerID,
		ItemID:            data.ItemID,
		CreatedBy:         data.CreatedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
