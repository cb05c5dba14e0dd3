package postgres

import (
	"context"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type itemCatalog struct {
	db *gorm.DB
}

// NewItemCatalog reads rentable items from the catalog's items table.
func NewItemCatalog(db *gorm.DB) service.ItemCatalog {
	return &itemCatalog{db: db}
}

func (c *itemCatalog) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var itemModel model.ItemModel
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&itemModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrItemNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find item")
	}

	return &entity.Item{
		ID:            itemModel.ID,
		OwnerID:       itemModel.OwnerID,
		Title:         itemModel.Title,
		BasePrice:     itemModel.BasePrice,
		PriceUnit:     pricing.RentalUnit(itemModel.PriceUnit),
		DepositAmount: itemModel.DepositAmount,
		Images:        []string(itemModel.Images),
		IsAvailable:   itemModel.IsAvailable,
		UpdatedAt:     itemModel.UpdatedAt,
	}, nil
}
