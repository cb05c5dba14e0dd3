package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"rentalhub/config"
	"rentalhub/internal/domain/service"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewNotificationService_LogFallback(t *testing.T) {
	for _, cfg := range []*config.FirebaseConfig{nil, {}, {ProjectID: "rentalhub"}} {
		notifier, err := NewNotificationService(Params{
			Ctx:    context.Background(),
			Config: &config.Config{Firebase: cfg},
			Logger: testLogger(),
		})
		require.NoError(t, err)
		assert.IsType(t, &logService{}, notifier)

		sent, failed, invalid, err := notifier.SendBatchNotification(context.Background(), []string{"a", "b"}, "title", "body", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Zero(t, failed)
		assert.Empty(t, invalid)
	}
}

type fakeSender struct {
	calls    int
	response *messaging.BatchResponse
}

func (f *fakeSender) SendEachForMulticast(_ context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls++
	if f.response != nil {
		return f.response, nil
	}
	responses := make([]*messaging.SendResponse, len(message.Tokens))
	for i := range responses {
		responses[i] = &messaging.SendResponse{Success: true, MessageID: "m"}
	}

	return &messaging.BatchResponse{SuccessCount: len(message.Tokens), Responses: responses}, nil
}

func TestFirebaseService_SendBatchNotification(t *testing.T) {
	t.Run("empty batch skips the call", func(t *testing.T) {
		sender := &fakeSender{}
		svc := &firebaseService{client: sender}

		sent, failed, invalid, err := svc.SendBatchNotification(context.Background(), nil, "t", "b", nil)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Zero(t, failed)
		assert.Nil(t, invalid)
		assert.Zero(t, sender.calls)
	})

	t.Run("batch over the limit is rejected", func(t *testing.T) {
		sender := &fakeSender{}
		svc := &firebaseService{client: sender}
		tokens := make([]string, service.MaxNotificationBatch+1)

		_, _, _, err := svc.SendBatchNotification(context.Background(), tokens, "t", "b", nil)
		require.Error(t, err)
		assert.Zero(t, sender.calls)
	})

	t.Run("counts come from the batch response", func(t *testing.T) {
		sender := &fakeSender{}
		svc := &firebaseService{client: sender}

		sent, failed, invalid, err := svc.SendBatchNotification(context.Background(), []string{"a", "b", "c"}, "t", "b", map[string]string{"order_id": "x"})
		require.NoError(t, err)
		assert.Equal(t, 3, sent)
		assert.Zero(t, failed)
		assert.Empty(t, invalid)
		assert.Equal(t, 1, sender.calls)
	})
}
