package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/service"
)

// NotificationUsecase defines the interface for order notifications
type NotificationUsecase interface {
	// NotifyOrderEvent pushes an order event to the devices of the parties it concerns.
	// Events nobody needs to hear about return an empty result.
	NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*entity.NotificationResult, error)
}
