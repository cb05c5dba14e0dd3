package entity

import (
	"time"

	"github.com/google/uuid"
)

// DevicePlatform is the client platform a device registered from.
type DevicePlatform string

const (
	PlatformIOS     DevicePlatform = "ios"
	PlatformAndroid DevicePlatform = "android"
	PlatformWeb     DevicePlatform = "web"
)

// IsValid checks if the DevicePlatform is a known value.
func (p DevicePlatform) IsValid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	default:
		return false
	}
}

// UserDevice is a user's device registered for order notifications.
type UserDevice struct {
	ID        uuid.UUID      `json:"id"`         // The Global Unique Identifier (GUID) for the device.
	UserID    uuid.UUID      `json:"user_id"`    // The ID of the user who owns this device.
	FCMToken  string         `json:"fcm_token"`  // Firebase Cloud Messaging token.
	DeviceID  string         `json:"device_id"`  // Client-chosen identifier, unique per user.
	Platform  DevicePlatform `json:"platform"`   // ios, android or web.
	IsActive  bool           `json:"is_active"`  // Inactive devices receive nothing.
	CreatedAt time.Time      `json:"created_at"` // Timestamp of when this device was registered.
	UpdatedAt time.Time      `json:"updated_at"` // Timestamp of the last modification.
}

// NotificationResult summarises one fan-out of an order notification.
type NotificationResult struct {
	Recipients  int `json:"recipients"`
	Sent        int `json:"sent"`
	Failed      int `json:"failed"`
	Deactivated int `json:"deactivated"`
}
