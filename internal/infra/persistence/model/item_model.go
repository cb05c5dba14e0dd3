package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItemModel is the GORM-specific struct for the catalog's 'items' table.
// This service only reads it.
type ItemModel struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key"`
	OwnerID       uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title         string                      `gorm:"type:varchar(200);not null"`
	BasePrice     int64                       `gorm:"not null"`
	PriceUnit     string                      `gorm:"type:varchar(16);not null"`
	DepositAmount int64                       `gorm:"not null;default:0"`
	Images        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsAvailable   bool                        `gorm:"not null;default:true"`
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (ItemModel) TableName() string {
	return "items"
}
