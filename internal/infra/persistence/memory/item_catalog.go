package memory

import (
	"context"
	"sync"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// ItemCatalog is a map-backed catalog for local runs and tests.
type ItemCatalog struct {
	mu    sync.RWMutex
	items map[uuid.UUID]entity.Item
}

// NewItemCatalog creates a catalog holding items.
func NewItemCatalog(items ...*entity.Item) *ItemCatalog {
	catalog := &ItemCatalog{items: make(map[uuid.UUID]entity.Item, len(items))}
	for _, item := range items {
		catalog.Put(item)
	}

	return catalog
}

// NewItemCatalogFromConfig seeds a catalog from the catalog config section.
func NewItemCatalogFromConfig(cfg *config.Config) (service.ItemCatalog, error) {
	catalog := NewItemCatalog()
	if cfg.Catalog == nil {
		return catalog, nil
	}

	for i, seeded := range cfg.Catalog.Items {
		id, err := uuid.Parse(seeded.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog item %d: id", i)
		}
		ownerID, err := uuid.Parse(seeded.OwnerID)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog item %d: ownerId", i)
		}
		unit := pricing.RentalUnit(seeded.PriceUnit)
		if !unit.IsValid() {
			return nil, errors.Wrapf(pricing.ErrUnknownRentalUnit, "catalog item %d: %q", i, seeded.PriceUnit)
		}

		catalog.Put(&entity.Item{
			ID:            id,
			OwnerID:       ownerID,
			Title:         seeded.Title,
			BasePrice:     seeded.BasePrice,
			PriceUnit:     unit,
			DepositAmount: seeded.DepositAmount,
			Images:        seeded.Images,
			IsAvailable:   true,
		})
	}

	return catalog, nil
}

// Put adds or replaces an item.
func (c *ItemCatalog) Put(item *entity.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[item.ID] = *item
}

// GetItem implements service.ItemCatalog.
func (c *ItemCatalog) GetItem(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, service.ErrItemNotFound
	}
	item.Images = append([]string(nil), item.Images...)

	return &item, nil
}
