package model

import (
	"time"

	"github.com/google/uuid"
)

// UserDeviceModel is the GORM-specific struct for the 'user_devices' table.
// (user_id, device_id) is unique so a re-registration updates the row in place.
type UserDeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_devices_user_device"`
	FCMToken  string    `gorm:"type:varchar(255);not null;index"`
	DeviceID  string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_devices_user_device"`
	Platform  string    `gorm:"type:varchar(20);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserDeviceModel) TableName() string {
	return "user_devices"
}
