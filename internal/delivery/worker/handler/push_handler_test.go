package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentalhub/config"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRefunder struct {
	mock.Mock
}

func (m *mockRefunder) RefundCancelledOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, bool, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Bool(1), args.Error(2)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*entity.NotificationResult, error) {
	args := m.Called(ctx, event)
	result, _ := args.Get(0).(*entity.NotificationResult)

	return result, args.Error(1)
}

func newTestHandler(refunder paymentRefunder) *PushHandler {
	notifier := &mockNotifier{}
	notifier.On("NotifyOrderEvent", mock.Anything, mock.Anything).Return(&entity.NotificationResult{}, nil).Maybe()

	return newTestHandlerWithNotifier(refunder, notifier)
}

func newTestHandlerWithNotifier(refunder paymentRefunder, notifier orderNotifier) *PushHandler {
	return &PushHandler{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		refunder: refunder,
		notifier: notifier,
	}
}

func pushBody(t *testing.T, event *service.OrderEvent) []byte {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = "m-1"
	msg.Message.Attributes = map[string]string{"request_id": "req-1"}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return body
}

func push(t *testing.T, h *PushHandler, body []byte) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))

	return rec.Code
}

func TestPushHandler_CancelledOrderIsRefunded(t *testing.T) {
	orderID := uuid.New()
	refunder := &mockRefunder{}
	refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(&entity.Order{ID: orderID}, true, nil).Once()

	code := push(t, newTestHandler(refunder), pushBody(t, &service.OrderEvent{
		Name:    constants.EventOrderCancelled,
		OrderID: orderID,
		Status:  string(entity.OrderStatusCancelled),
	}))

	assert.Equal(t, http.StatusOK, code)
	refunder.AssertExpectations(t)
}

func TestPushHandler_DisputeOutcome(t *testing.T) {
	orderID := uuid.New()

	t.Run("completed outcome is not refunded", func(t *testing.T) {
		refunder := &mockRefunder{}
		code := push(t, newTestHandler(refunder), pushBody(t, &service.OrderEvent{
			Name:    constants.EventOrderDisputeSettled,
			OrderID: orderID,
			Status:  string(entity.OrderStatusCompleted),
		}))

		assert.Equal(t, http.StatusOK, code)
		refunder.AssertNotCalled(t, "RefundCancelledOrder", mock.Anything, mock.Anything)
	})

	t.Run("cancelled outcome is refunded", func(t *testing.T) {
		refunder := &mockRefunder{}
		refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(&entity.Order{ID: orderID}, false, nil).Once()

		code := push(t, newTestHandler(refunder), pushBody(t, &service.OrderEvent{
			Name:    constants.EventOrderDisputeSettled,
			OrderID: orderID,
			Status:  string(entity.OrderStatusCancelled),
		}))

		assert.Equal(t, http.StatusOK, code)
		refunder.AssertExpectations(t)
	})
}

func TestPushHandler_Failures(t *testing.T) {
	orderID := uuid.New()
	cancelled := &service.OrderEvent{Name: constants.EventOrderCancelled, OrderID: orderID}

	t.Run("storage failure asks for redelivery", func(t *testing.T) {
		refunder := &mockRefunder{}
		refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(nil, false, errors.New("connection reset"))

		assert.Equal(t, http.StatusServiceUnavailable, push(t, newTestHandler(refunder), pushBody(t, cancelled)))
	})

	t.Run("unknown order is acknowledged", func(t *testing.T) {
		refunder := &mockRefunder{}
		refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(nil, false, domainerrors.ErrOrderNotFound)

		assert.Equal(t, http.StatusOK, push(t, newTestHandler(refunder), pushBody(t, cancelled)))
	})

	t.Run("malformed message", func(t *testing.T) {
		refunder := &mockRefunder{}

		assert.Equal(t, http.StatusBadRequest, push(t, newTestHandler(refunder), []byte(`{"message":{"data":"%%%"}}`)))
	})

	t.Run("event without order is dropped", func(t *testing.T) {
		refunder := &mockRefunder{}

		code := push(t, newTestHandler(refunder), pushBody(t, &service.OrderEvent{Name: constants.EventOrderCancelled}))
		assert.Equal(t, http.StatusOK, code)
		refunder.AssertNotCalled(t, "RefundCancelledOrder", mock.Anything, mock.Anything)
	})

	t.Run("other events are acknowledged", func(t *testing.T) {
		refunder := &mockRefunder{}

		code := push(t, newTestHandler(refunder), pushBody(t, &service.OrderEvent{Name: constants.EventOrderDepositRelease, OrderID: orderID, Deposit: 50_000}))
		assert.Equal(t, http.StatusOK, code)
		refunder.AssertNotCalled(t, "RefundCancelledOrder", mock.Anything, mock.Anything)
	})
}

func TestPushHandler_NotifiesParties(t *testing.T) {
	orderID := uuid.New()

	t.Run("processed event is pushed to devices", func(t *testing.T) {
		refunder := &mockRefunder{}
		refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(&entity.Order{ID: orderID}, true, nil).Once()
		notifier := &mockNotifier{}
		notifier.On("NotifyOrderEvent", mock.Anything, mock.MatchedBy(func(event *service.OrderEvent) bool {
			return event.OrderID == orderID && event.Name == constants.EventOrderCancelled
		})).Return(&entity.NotificationResult{Recipients: 1, Sent: 1}, nil).Once()

		code := push(t, newTestHandlerWithNotifier(refunder, notifier), pushBody(t, &service.OrderEvent{
			Name:    constants.EventOrderCancelled,
			OrderID: orderID,
		}))

		assert.Equal(t, http.StatusOK, code)
		notifier.AssertExpectations(t)
	})

	t.Run("notification failure is not redelivered", func(t *testing.T) {
		notifier := &mockNotifier{}
		notifier.On("NotifyOrderEvent", mock.Anything, mock.Anything).Return(nil, errors.New("fcm unavailable")).Once()

		code := push(t, newTestHandlerWithNotifier(&mockRefunder{}, notifier), pushBody(t, &service.OrderEvent{
			Name:    constants.EventOrderCreated,
			OrderID: orderID,
		}))

		assert.Equal(t, http.StatusOK, code)
		notifier.AssertExpectations(t)
	})

	t.Run("failed refund sends nothing", func(t *testing.T) {
		refunder := &mockRefunder{}
		refunder.On("RefundCancelledOrder", mock.Anything, orderID).Return(nil, false, errors.New("connection reset"))
		notifier := &mockNotifier{}

		code := push(t, newTestHandlerWithNotifier(refunder, notifier), pushBody(t, &service.OrderEvent{
			Name:    constants.EventOrderCancelled,
			OrderID: orderID,
		}))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		notifier.AssertNotCalled(t, "NotifyOrderEvent", mock.Anything, mock.Anything)
	})
}

func TestNewPushHandler_VerifiesOnlyGooglePushes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	cfg.Env.Env = constants.EnvProduction
	assert.True(t, NewPushHandler(PushHandlerParams{Config: cfg, Logger: logger}).verifyPushAuth)

	cfg.Env.Env = constants.EnvDevelop
	assert.False(t, NewPushHandler(PushHandlerParams{Config: cfg, Logger: logger}).verifyPushAuth)

	local := &config.Config{PubSub: &config.PubSubConfig{Provider: "local"}}
	assert.False(t, NewPushHandler(PushHandlerParams{Config: local, Logger: logger}).verifyPushAuth)
}

func TestVerifyPubSubToken_RejectsMissingBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/push", nil)
	assert.Error(t, verifyPubSubToken(req))

	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	assert.Error(t, verifyPubSubToken(req))
}
