package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountModel is the GORM-specific struct for the 'discounts' table.
type DiscountModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	Code              string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description       string          `gorm:"type:text"`
	Type              string          `gorm:"type:varchar(16);not null"`
	Value             decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	MaxDiscountAmount *int64
	MinOrderAmount    int64     `gorm:"not null;default:0"`
	StartAt           time.Time `gorm:"not null;index"`
	EndAt             time.Time `gorm:"not null;index"`
	UsageLimit        *int
	UsedCount         int        `gorm:"not null;default:0;check:chk_discounts_used_count,used_count >= 0 AND (usage_limit IS NULL OR used_count <= usage_limit)"`
	IsSpecial         bool       `gorm:"not null;default:false"`
	OwnerID           *uuid.UUID `gorm:"type:uuid;index"`
	ItemID            *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (DiscountModel) TableName() string {
	return "discounts"
}
