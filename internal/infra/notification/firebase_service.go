package notification

import (
	"context"

	"rentalhub/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// multicastSender is the part of the FCM client the service uses.
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type firebaseService struct {
	client multicastSender
}

// NewFirebaseService creates a Firebase Cloud Messaging notification service
func NewFirebaseService(ctx context.Context, projectID, credentialsPath string) (service.NotificationService, error) {
	var appCfg *firebase.Config
	if projectID != "" {
		appCfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseService{client: client}, nil
}

// SendBatchNotification sends one multicast message and reports the tokens FCM rejected
func (s *firebaseService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	if len(tokens) == 0 {
		return 0, 0, nil, nil
	}
	if len(tokens) > service.MaxNotificationBatch {
		return 0, 0, nil, errors.Errorf("token count exceeds limit: %d (max %d)", len(tokens), service.MaxNotificationBatch)
	}

	response, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return 0, 0, nil, errors.Wrap(err, "failed to send multicast notification")
	}

	invalidTokens = make([]string, 0)
	for idx, sendResponse := range response.Responses {
		if sendResponse.Error == nil {
			continue
		}
		if messaging.IsInvalidArgument(sendResponse.Error) || messaging.IsUnregistered(sendResponse.Error) {
			invalidTokens = append(invalidTokens, tokens[idx])
		}
	}

	return response.SuccessCount, response.FailureCount, invalidTokens, nil
}
