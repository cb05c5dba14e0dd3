// Package notification delivers order notifications to user devices.
package notification

import (
	"context"
	"log/slog"

	"rentalhub/config"
	"rentalhub/internal/domain/service"

	"go.uber.org/fx"
)

// logService stands in for FCM when Firebase is not configured.
type logService struct {
	logger *slog.Logger
}

func (s *logService) SendBatchNotification(_ context.Context, tokens []string, title, _ string, data map[string]string) (int, int, []string, error) {
	s.logger.Debug("[Notification] Firebase disabled, skipping push",
		slog.String("title", title),
		slog.Int("tokens", len(tokens)),
		slog.String("order_id", data["order_id"]),
	)

	return len(tokens), 0, nil, nil
}

// Params holds dependencies for the NotificationService, injected by Fx
type Params struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationService returns the FCM sender when credentials are configured and a
// logging stand-in otherwise.
func NewNotificationService(params Params) (service.NotificationService, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Firebase not configured, order notifications are only logged")

		return &logService{logger: params.Logger}, nil
	}

	params.Logger.Info("Using Firebase Cloud Messaging for order notifications",
		slog.String("project_id", cfg.ProjectID),
	)

	return NewFirebaseService(params.Ctx, cfg.ProjectID, cfg.CredentialsPath)
}
