package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type notificationService struct {
	deviceRepo repository.DeviceRepository
	sender     service.NotificationService
	logger     *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Sender     service.NotificationService
	Logger     *slog.Logger
}

// NewNotificationService creates a new order notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		deviceRepo: params.DeviceRepo,
		sender:     params.Sender,
		logger:     params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// recipients picks who hears about an event.
func recipients(event *service.OrderEvent) []uuid.UUID {
	switch event.Name {
	case constants.EventOrderCreated:
		return []uuid.UUID{event.OwnerID}
	case constants.EventOrderCancelled:
		switch event.ActorID {
		case event.RenterID:
			return []uuid.UUID{event.OwnerID}
		case event.OwnerID:
			return []uuid.UUID{event.RenterID}
		}

		return []uuid.UUID{event.OwnerID, event.RenterID}
	case constants.EventOrderDisputeOpened, constants.EventOrderDisputeSettled:
		return []uuid.UUID{event.OwnerID, event.RenterID}
	case constants.EventOrderDepositRelease:
		return []uuid.UUID{event.RenterID}
	default:
		return nil
	}
}

func messageFor(event *service.OrderEvent) (title, body string) {
	short := event.OrderID.String()[:8]
	switch event.Name {
	case constants.EventOrderCreated:
		return "New rental order", fmt.Sprintf("Order %s is waiting for you", short)
	case constants.EventOrderCancelled:
		return "Order cancelled", fmt.Sprintf("Order %s was cancelled", short)
	case constants.EventOrderDisputeOpened:
		return "Dispute opened", fmt.Sprintf("A dispute was opened on order %s", short)
	case constants.EventOrderDisputeSettled:
		return "Dispute resolved", fmt.Sprintf("The dispute on order %s was resolved", short)
	default:
		return "Deposit released", fmt.Sprintf("The deposit of order %s was released", short)
	}
}

// NotifyOrderEvent sends the event to every active device of its recipients in
// batches and deactivates the tokens the provider rejects.
func (srv *notificationService) NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*entity.NotificationResult, error) {
	result := &entity.NotificationResult{}

	userIDs := recipients(event)
	if len(userIDs) == 0 {
		return result, nil
	}

	devices, err := srv.deviceRepo.FindActiveByUsers(ctx, userIDs)
	if err != nil {
		return nil, wrapRepoError(err, "failed to fetch devices")
	}
	if len(devices) == 0 {
		return result, nil
	}

	tokens := make([]string, 0, len(devices))
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
		seen[device.UserID] = struct{}{}
	}
	result.Recipients = len(seen)

	title, body := messageFor(event)
	data := map[string]string{
		"event":    event.Name,
		"order_id": event.OrderID.String(),
		"status":   event.Status,
	}
	if event.DisputeID != nil {
		data["dispute_id"] = event.DisputeID.String()
	}

	var invalidTokens []string
	for start := 0; start < len(tokens); start += service.MaxNotificationBatch {
		batch := tokens[start:min(start+service.MaxNotificationBatch, len(tokens))]

		sent, failed, invalid, err := srv.sender.SendBatchNotification(ctx, batch, title, body, data)
		if err != nil {
			// Keep going with the other batches
			srv.log(ctx).Error("Failed to send notification batch",
				slog.String("order_id", event.OrderID.String()),
				slog.Int("batch_size", len(batch)),
				slog.Any("error", err),
			)
			result.Failed += len(batch)

			continue
		}

		result.Sent += sent
		result.Failed += failed
		invalidTokens = append(invalidTokens, invalid...)
	}

	if len(invalidTokens) > 0 {
		deactivated, err := srv.deviceRepo.DeactivateTokens(ctx, invalidTokens)
		if err != nil {
			return result, wrapRepoError(err, "failed to deactivate invalid tokens")
		}
		result.Deactivated = int(deactivated)
	}

	srv.log(ctx).Info("Order notification sent",
		slog.String("event", event.Name),
		slog.String("order_id", event.OrderID.String()),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("deactivated", result.Deactivated),
	)

	return result, nil
}
