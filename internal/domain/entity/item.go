package entity

import (
	"time"

	"rentalhub/internal/domain/pricing"

	"github.com/google/uuid"
)

// Item is the catalog view of a rentable item. The catalog itself lives outside this
// service; orders only read it once to take a snapshot.
type Item struct {
	ID            uuid.UUID          `json:"id"`
	OwnerID       uuid.UUID          `json:"owner_id"`
	Title         string             `json:"title"`
	BasePrice     int64              `json:"base_price"`     // Price per PriceUnit in minor units.
	PriceUnit     pricing.RentalUnit `json:"price_unit"`     // Billing granularity.
	DepositAmount int64              `json:"deposit_amount"` // Deposit per rented unit.
	Images        []string           `json:"images"`
	IsAvailable   bool               `json:"is_available"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ItemSnapshot is the copy of an item frozen onto an order at checkout.
type ItemSnapshot struct {
	ItemID        uuid.UUID          `json:"item_id"`
	Title         string             `json:"title"`
	BasePrice     int64              `json:"base_price"`
	PriceUnit     pricing.RentalUnit `json:"price_unit"`
	Images        []string           `json:"images"`
	DepositAmount int64              `json:"deposit_amount"`
}

// Snapshot copies the fields an order keeps.
func (i *Item) Snapshot() ItemSnapshot {
	images := make([]string, len(i.Images))
	copy(images, i.Images)

	return ItemSnapshot{
		ItemID:        i.ID,
		Title:         i.Title,
		BasePrice:     i.BasePrice,
		PriceUnit:     i.PriceUnit,
		Images:        images,
		DepositAmount: i.DepositAmount,
	}
}
