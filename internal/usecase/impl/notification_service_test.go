package impl

import (
	"context"
	"fmt"
	"testing"

	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/memory"
	mockSvc "rentalhub/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	devices  repository.DeviceRepository
	sender   *mockSvc.MockNotificationService
	notifier *notificationService
	ownerID  uuid.UUID
	renterID uuid.UUID
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	f := &notificationFixture{
		devices:  memory.NewDeviceRepository(memory.NewStore()),
		sender:   mockSvc.NewMockNotificationService(t),
		ownerID:  uuid.New(),
		renterID: uuid.New(),
	}
	f.notifier = NewNotificationService(NotificationServiceParams{
		DeviceRepo: f.devices,
		Sender:     f.sender,
		Logger:     newDiscardLogger(),
	}).(*notificationService)

	f.register(t, f.ownerID, "owner-phone", "owner-token")
	f.register(t, f.renterID, "renter-phone", "renter-token")

	return f
}

func (f *notificationFixture) register(t *testing.T, userID uuid.UUID, deviceID, token string) {
	t.Helper()

	require.NoError(t, f.devices.Upsert(context.Background(), &entity.UserDevice{
		UserID:   userID,
		DeviceID: deviceID,
		FCMToken: token,
		Platform: entity.PlatformAndroid,
	}))
}

func (f *notificationFixture) event(name string, actor uuid.UUID) *service.OrderEvent {
	return &service.OrderEvent{
		Name:     name,
		OrderID:  uuid.New(),
		OwnerID:  f.ownerID,
		RenterID: f.renterID,
		ActorID:  actor,
		Status:   "pending",
	}
}

func TestNotificationService_NotifyOrderEvent_Recipients(t *testing.T) {
	staffID := uuid.New()

	tests := []struct {
		name   string
		event  string
		actor  func(f *notificationFixture) uuid.UUID
		tokens []string
	}{
		{"created goes to the owner", constants.EventOrderCreated, func(f *notificationFixture) uuid.UUID { return f.renterID }, []string{"owner-token"}},
		{"renter cancel goes to the owner", constants.EventOrderCancelled, func(f *notificationFixture) uuid.UUID { return f.renterID }, []string{"owner-token"}},
		{"owner cancel goes to the renter", constants.EventOrderCancelled, func(f *notificationFixture) uuid.UUID { return f.ownerID }, []string{"renter-token"}},
		{"staff cancel goes to both", constants.EventOrderCancelled, func(*notificationFixture) uuid.UUID { return staffID }, []string{"owner-token", "renter-token"}},
		{"dispute goes to both", constants.EventOrderDisputeOpened, func(f *notificationFixture) uuid.UUID { return f.renterID }, []string{"owner-token", "renter-token"}},
		{"resolution goes to both", constants.EventOrderDisputeSettled, func(*notificationFixture) uuid.UUID { return staffID }, []string{"owner-token", "renter-token"}},
		{"deposit release goes to the renter", constants.EventOrderDepositRelease, func(f *notificationFixture) uuid.UUID { return f.ownerID }, []string{"renter-token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNotificationFixture(t)
			event := f.event(tt.event, tt.actor(f))

			f.sender.EXPECT().
				SendBatchNotification(mock.Anything, tt.tokens, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.MatchedBy(func(data map[string]string) bool {
					return data["order_id"] == event.OrderID.String() && data["event"] == tt.event
				})).
				Return(len(tt.tokens), 0, nil, nil).
				Once()

			result, err := f.notifier.NotifyOrderEvent(context.Background(), event)
			require.NoError(t, err)
			assert.Equal(t, len(tt.tokens), result.Recipients)
			assert.Equal(t, len(tt.tokens), result.Sent)
		})
	}
}

func TestNotificationService_NotifyOrderEvent_NothingToSend(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	result, err := f.notifier.NotifyOrderEvent(ctx, f.event("order.unknown", f.ownerID))
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationResult{}, *result)

	require.NoError(t, f.devices.Deactivate(ctx, f.ownerID, "owner-phone"))
	result, err = f.notifier.NotifyOrderEvent(ctx, f.event(constants.EventOrderCreated, f.renterID))
	require.NoError(t, err)
	assert.Zero(t, result.Recipients)
}

func TestNotificationService_NotifyOrderEvent_DeactivatesInvalidTokens(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	f.register(t, f.ownerID, "owner-laptop", "stale-token")

	f.sender.EXPECT().
		SendBatchNotification(mock.Anything, []string{"owner-token", "stale-token"}, mock.Anything, mock.Anything, mock.Anything).
		Return(1, 1, []string{"stale-token"}, nil).
		Once()

	result, err := f.notifier.NotifyOrderEvent(ctx, f.event(constants.EventOrderCreated, f.renterID))
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationResult{Recipients: 1, Sent: 1, Failed: 1, Deactivated: 1}, *result)

	devices, err := f.devices.FindActiveByUsers(ctx, []uuid.UUID{f.ownerID})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "owner-token", devices[0].FCMToken)
}

func TestNotificationService_NotifyOrderEvent_Batches(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	for i := range service.MaxNotificationBatch {
		f.register(t, f.ownerID, fmt.Sprintf("device-%03d", i), fmt.Sprintf("token-%03d", i))
	}
	total := service.MaxNotificationBatch + 1

	f.sender.EXPECT().
		SendBatchNotification(mock.Anything, mock.MatchedBy(func(tokens []string) bool { return len(tokens) == service.MaxNotificationBatch }), mock.Anything, mock.Anything, mock.Anything).
		Return(0, 0, nil, errors.New("fcm unavailable")).
		Once()
	f.sender.EXPECT().
		SendBatchNotification(mock.Anything, mock.MatchedBy(func(tokens []string) bool { return len(tokens) == 1 }), mock.Anything, mock.Anything, mock.Anything).
		Return(1, 0, nil, nil).
		Once()

	result, err := f.notifier.NotifyOrderEvent(ctx, f.event(constants.EventOrderCreated, f.renterID))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, service.MaxNotificationBatch, result.Failed)
	assert.Equal(t, total, result.Sent+result.Failed)
}
