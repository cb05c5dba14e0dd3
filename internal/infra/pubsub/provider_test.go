package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEventPublisher_Noop(t *testing.T) {
	for _, cfg := range []*config.PubSubConfig{nil, {}, {Provider: constants.PubSubProviderNoop}} {
		publisher, err := NewEventPublisher(PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{PubSub: cfg},
			Logger: testLogger(),
		})
		require.NoError(t, err)
		assert.IsType(t, &noopPublisher{}, publisher)
		assert.NoError(t, publisher.PublishOrderEvent(context.Background(), &service.OrderEvent{Name: constants.EventOrderCreated}))
	}
}

func TestNewEventPublisher_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.PubSubConfig
	}{
		{"local without endpoint", &config.PubSubConfig{Provider: constants.PubSubProviderLocal}},
		{"google without project", &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "orders"}},
		{"google without topic", &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "p"}},
		{"unknown provider", &config.PubSubConfig{Provider: "kafka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPublisher(PublisherParams{
				Lc:     fxtest.NewLifecycle(t),
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: testLogger(),
			})
			assert.Error(t, err)
		})
	}
}

func TestLocalHTTPPublisher_PushesOrderEvent(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	event := &service.OrderEvent{
		RequestID:   "req-1",
		Name:        constants.EventOrderCreated,
		OrderID:     uuid.New(),
		OwnerID:     uuid.New(),
		Status:      "pending",
		FinalAmount: 153000,
		OccurredAt:  time.Now().UTC(),
	}

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, constants.EventOrderCreated, received.Message.Attributes["event"])
	assert.Equal(t, event.OrderID.String(), received.Message.Attributes["order_id"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.OrderEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.OrderID, decoded.OrderID)
	assert.Equal(t, int64(153000), decoded.FinalAmount)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	err := publisher.PublishOrderEvent(context.Background(), &service.OrderEvent{OrderID: uuid.New()})
	assert.Error(t, err)
}
