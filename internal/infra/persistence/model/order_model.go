package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ItemSnapshotData is the JSON document stored in orders.item_snapshot.
type ItemSnapshotData struct {
	ItemID        uuid.UUID `json:"item_id"`
	Title         string    `json:"title"`
	BasePrice     int64     `json:"base_price"`
	PriceUnit     string    `json:"price_unit"`
	Images        []string  `json:"images"`
	DepositAmount int64     `json:"deposit_amount"`
}

// OrderModel is the GORM-specific struct for the 'orders' table.
type OrderModel struct {
	ID           uuid.UUID                            `gorm:"type:uuid;primary_key"`
	RenterID     uuid.UUID                            `gorm:"type:uuid;not null;index"`
	OwnerID      uuid.UUID                            `gorm:"type:uuid;not null;index:idx_orders_owner_created,priority:1"`
	ItemID       uuid.UUID                            `gorm:"type:uuid;not null;index"`
	ItemSnapshot datatypes.JSONType[ItemSnapshotData] `gorm:"type:jsonb;not null"`

	UnitCount      int       `gorm:"not null"`
	StartAt        time.Time `gorm:"not null"`
	EndAt          time.Time `gorm:"not null"`
	RentalDuration int       `gorm:"not null"`
	RentalUnit     string    `gorm:"type:varchar(16);not null"`

	TotalAmount             int64           `gorm:"not null"`
	DepositAmount           int64           `gorm:"not null"`
	ServiceFee              int64           `gorm:"not null"`
	ServiceFeeRate          decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	ServiceFeeSource        string          `gorm:"type:varchar(16);not null"`
	ServiceFeePolicyID      *uuid.UUID      `gorm:"type:uuid"`
	ServiceFeePolicyVersion *int
	DiscountCode            *string         `gorm:"type:varchar(64)"`
	DiscountValue           decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	DiscountAmountApplied   int64           `gorm:"not null;default:0"`
	SecondaryCode           *string         `gorm:"type:varchar(64)"`
	SecondaryValue          decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	SecondaryAmountApplied  int64           `gorm:"not null;default:0"`
	TotalDiscountApplied    int64           `gorm:"not null;default:0"`
	FinalAmount             int64           `gorm:"not null;check:chk_orders_final_amount,final_amount >= 0"`

	OrderStatus      string     `gorm:"type:varchar(16);not null;index"`
	PaymentStatus    string     `gorm:"type:varchar(16);not null"`
	DisputeID        *uuid.UUID `gorm:"type:uuid"`
	CancelReason     string     `gorm:"type:text"`
	CancelledBy      *uuid.UUID `gorm:"type:uuid"`
	IsContractSigned bool       `gorm:"not null;default:false"`
	Version          int        `gorm:"not null;default:1"`
	CreatedAt        time.Time  `gorm:"index:idx_orders_owner_created,priority:2"`
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderStatusHistoryModel is the GORM-specific struct for the 'order_status_history' table.
type OrderStatusHistoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus *string   `gorm:"type:varchar(16)"`
	ToStatus   string    `gorm:"type:varchar(16);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	Reason     string    `gorm:"type:text"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderStatusHistoryModel) TableName() string {
	return "order_status_history"
}
