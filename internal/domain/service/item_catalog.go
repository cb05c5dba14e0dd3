package service

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned by catalogs for unknown items.
var ErrItemNotFound = errors.New("item not found")

// ItemCatalog is the read-only view of the item catalog used at checkout.
type ItemCatalog interface {
	GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error)
}
