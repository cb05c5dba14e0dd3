package service

import (
	"context"
)

// MaxNotificationBatch is the most tokens one SendBatchNotification call accepts.
const MaxNotificationBatch = 500

// NotificationService defines the interface for push notification delivery
type NotificationService interface {
	// SendBatchNotification sends one message to up to MaxNotificationBatch device tokens.
	// invalidTokens lists the tokens the provider reported as unregistered or malformed.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}
