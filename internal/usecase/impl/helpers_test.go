package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/infra/idempotency"
	"rentalhub/internal/infra/persistence/memory"
	"rentalhub/internal/infra/qrcode"
	mockSvc "rentalhub/internal/mocks/service"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ServiceFee.DefaultRatePercent = decimal.NewFromInt(3)
	cfg.Checkout.IdempotencyTTL = time.Hour
	cfg.Pagination.DefaultPageSize = 20
	cfg.Pagination.MaxPageSize = 100

	return cfg
}

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store       *memory.Store
	catalog     *memory.ItemCatalog
	idempotency *idempotency.MemoryStore
	publisher   *mockSvc.MockEventPublisher

	policies     usecase.PolicyUsecase
	privacyTypes usecase.PrivacyTypeUsecase
	discounts    usecase.DiscountUsecase
	orders       usecase.OrderUsecase
	analytics    usecase.AnalyticsUsecase

	ownerID  uuid.UUID
	renterID uuid.UUID
	item     *entity.Item
	staff    entity.Principal

	mu     sync.Mutex
	events []*service.OrderEvent
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:       memory.NewStore(),
		catalog:     memory.NewItemCatalog(),
		idempotency: idempotency.NewMemoryStore(),
		publisher:   mockSvc.NewMockEventPublisher(t),
		ownerID:     uuid.New(),
		renterID:    uuid.New(),
		staff:       entity.Principal{ID: uuid.New(), Roles: entity.Roles{entity.RoleAdmin}},
	}
	env.item = &entity.Item{
		ID:            uuid.New(),
		OwnerID:       env.ownerID,
		Title:         "Camping tent",
		BasePrice:     100_000,
		PriceUnit:     pricing.RentalUnitDay,
		DepositAmount: 50_000,
		Images:        []string{"tent.jpg"},
		IsAvailable:   true,
	}
	env.catalog.Put(env.item)

	env.publisher.EXPECT().
		PublishOrderEvent(mock.Anything, mock.AnythingOfType("*service.OrderEvent")).
		Run(func(_ context.Context, event *service.OrderEvent) {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, event)
		}).
		Return(nil).
		Maybe()

	cfg := newTestConfig()
	logger := newDiscardLogger()
	txManager := memory.NewTransactionManager(env.store)
	clock := func() time.Time { return testNow }

	policies := NewPolicyService(PolicyServiceParams{
		TxManager:  txManager,
		PolicyRepo: memory.NewPolicyRepository(env.store),
		Config:     cfg,
		Logger:     logger,
	}).(*policyService)
	policies.now = clock
	env.policies = policies

	privacyTypes := NewPrivacyTypeService(PrivacyTypeServiceParams{
		TxManager:       txManager,
		PrivacyTypeRepo: memory.NewPrivacyTypeRepository(env.store),
		Logger:          logger,
	}).(*privacyTypeService)
	privacyTypes.now = clock
	env.privacyTypes = privacyTypes

	discounts := NewDiscountService(DiscountServiceParams{
		DiscountRepo: memory.NewDiscountRepository(env.store),
		Config:       cfg,
		Logger:       logger,
	}).(*discountService)
	discounts.now = clock
	env.discounts = discounts

	orders := NewOrderService(OrderServiceParams{
		TxManager:        txManager,
		OrderRepo:        memory.NewOrderRepository(env.store),
		Catalog:          env.catalog,
		IdempotencyStore: env.idempotency,
		EventPublisher:   env.publisher,
		QRCodeService:    qrcode.NewQRCodeService(256, "M"),
		Config:           cfg,
		Logger:           logger,
	}).(*orderService)
	orders.now = clock
	env.orders = orders

	env.analytics = NewAnalyticsService(AnalyticsServiceParams{
		AnalyticsRepo: memory.NewOrderAnalyticsRepository(env.store),
		Logger:        logger,
	})

	return env
}

func (env *testEnv) renter() entity.Principal {
	return entity.Principal{ID: env.renterID, Roles: entity.Roles{entity.RoleUser}}
}

func (env *testEnv) owner() entity.Principal {
	return entity.Principal{ID: env.ownerID, Roles: entity.Roles{entity.RoleUser}}
}

func (env *testEnv) eventNames() []string {
	env.mu.Lock()
	defer env.mu.Unlock()

	names := make([]string, 0, len(env.events))
	for _, event := range env.events {
		names = append(names, event.Name)
	}

	return names
}

// createDiscount stores a code valid around testNow.
func (env *testEnv) createDiscount(t *testing.T, input usecase.CreateDiscountInput) *entity.Discount {
	t.Helper()

	if input.StartAt.IsZero() {
		input.StartAt = testNow.Add(-24 * time.Hour)
	}
	if input.EndAt.IsZero() {
		input.EndAt = testNow.Add(30 * 24 * time.Hour)
	}
	input.CreatedBy = env.staff.ID

	discount, err := env.discounts.CreateDiscount(context.Background(), &input)
	require.NoError(t, err)

	return discount
}

// checkout places a one-day, one-unit order for the test item.
func (env *testEnv) checkout(t *testing.T, codes ...string) *entity.Order {
	t.Helper()

	input := &usecase.CreateOrderInput{
		RenterID:  env.renterID,
		ItemID:    env.item.ID,
		UnitCount: 1,
		StartAt:   testNow.Add(24 * time.Hour),
		EndAt:     testNow.Add(48 * time.Hour),
	}
	if len(codes) > 0 {
		input.DiscountCode = codes[0]
	}
	if len(codes) > 1 {
		input.SpecialCode = codes[1]
	}

	order, err := env.orders.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	return order
}

func ptr[T any](v T) *T {
	return &v
}
