package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscount(code string, limit *int) *entity.Discount {
	now := time.Now()

	return &entity.Discount{
		ID:         uuid.New(),
		Code:       code,
		Type:       pricing.DiscountTypePercent,
		Value:      decimal.NewFromInt(10),
		StartAt:    now.Add(-time.Hour),
		EndAt:      now.Add(time.Hour),
		UsageLimit: limit,
	}
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tm := NewTransactionManager(store)
	boom := errors.New("boom")

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.NewDiscountRepository().Create(ctx, newDiscount("ROLLBACK", nil)); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewDiscountRepository(store).FindByCode(ctx, "ROLLBACK")
	assert.ErrorIs(t, err, repository.ErrDiscountNotFound)
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tm := NewTransactionManager(store)

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewDiscountRepository()
		if err := repo.Create(ctx, newDiscount("COMMIT", nil)); err != nil {
			return err
		}

		return repo.IncrementUsage(ctx, "COMMIT")
	})
	require.NoError(t, err)

	discount, err := NewDiscountRepository(store).FindByCode(ctx, "COMMIT")
	require.NoError(t, err)
	assert.Equal(t, 1, discount.UsedCount)
}

func TestDiscountRepository_ConcurrentIncrementNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewDiscountRepository(store)
	limit := 5
	require.NoError(t, repo.Create(ctx, newDiscount("LIMITED", &limit)))

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
		exhausted atomic.Int64
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := NewTransactionManager(store).Execute(ctx, func(f repository.RepositoryFactory) error {
				return f.NewDiscountRepository().IncrementUsage(ctx, "LIMITED")
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, repository.ErrDiscountUsageExhausted):
				exhausted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), successes.Load())
	assert.Equal(t, int64(45), exhausted.Load())

	discount, err := repo.FindByCode(ctx, "LIMITED")
	require.NoError(t, err)
	assert.Equal(t, limit, discount.UsedCount)
}

func TestDiscountRepository_DecrementStopsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := NewDiscountRepository(NewStore())
	require.NoError(t, repo.Create(ctx, newDiscount("ZERO", nil)))

	require.NoError(t, repo.DecrementUsage(ctx, "ZERO"))

	discount, err := repo.FindByCode(ctx, "ZERO")
	require.NoError(t, err)
	assert.Equal(t, 0, discount.UsedCount)
	assert.ErrorIs(t, repo.DecrementUsage(ctx, "MISSING"), repository.ErrDiscountNotFound)
}

func TestDiscountRepository_ListAvailable(t *testing.T) {
	ctx := context.Background()
	repo := NewDiscountRepository(NewStore())
	ownerID := uuid.New()
	otherOwner := uuid.New()
	used := 1

	open := newDiscount("OPEN", nil)
	scoped := newDiscount("OWNER", nil)
	scoped.OwnerID = &ownerID
	foreign := newDiscount("FOREIGN", nil)
	foreign.OwnerID = &otherOwner
	spent := newDiscount("SPENT", &used)
	spent.UsedCount = 1
	special := newDiscount("VIP", nil)
	special.IsSpecial = true
	future := newDiscount("LATER", nil)
	future.StartAt = time.Now().Add(time.Hour)
	future.EndAt = time.Now().Add(2 * time.Hour)

	for _, d := range []*entity.Discount{open, scoped, foreign, spent, special, future} {
		require.NoError(t, repo.Create(ctx, d))
	}

	public, err := repo.ListAvailable(ctx, repository.DiscountAvailabilityFilter{
		Now:     time.Now(),
		Subject: entity.DiscountSubject{OwnerID: &ownerID},
		Limit:   10,
	})
	require.NoError(t, err)

	codes := make([]string, len(public))
	for i, d := range public {
		codes[i] = d.Code
	}
	assert.ElementsMatch(t, []string{"OPEN", "OWNER"}, codes)

	specials, err := repo.ListAvailable(ctx, repository.DiscountAvailabilityFilter{Now: time.Now(), IsSpecial: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, specials, 1)
	assert.Equal(t, "VIP", specials[0].Code)
}

func TestDiscountRepository_ListAvailable_EndIsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewDiscountRepository(NewStore())
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	closing := newDiscount("CLOSING", nil)
	closing.StartAt = now.Add(-time.Hour)
	closing.EndAt = now
	closed := newDiscount("CLOSED", nil)
	closed.StartAt = now.Add(-time.Hour)
	closed.EndAt = now.Add(-time.Second)
	require.NoError(t, repo.Create(ctx, closing))
	require.NoError(t, repo.Create(ctx, closed))

	public, err := repo.ListAvailable(ctx, repository.DiscountAvailabilityFilter{Now: now, Limit: 10})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "CLOSING", public[0].Code)
}

func TestRepositories_RowsDoNotShareMemoryWithCallers(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	limit := 5
	ownerID := uuid.New()
	discount := newDiscount("ISOLATED", &limit)
	discount.OwnerID = &ownerID
	discounts := NewDiscountRepository(store)
	require.NoError(t, discounts.Create(ctx, discount))

	limit = 1
	ownerID = uuid.New()
	found, err := discounts.FindByCode(ctx, "ISOLATED")
	require.NoError(t, err)
	require.NotNil(t, found.UsageLimit)
	assert.Equal(t, 5, *found.UsageLimit)
	assert.NotEqual(t, ownerID, *found.OwnerID)

	*found.UsageLimit = 0
	again, err := discounts.FindByCode(ctx, "ISOLATED")
	require.NoError(t, err)
	assert.Equal(t, 5, *again.UsageLimit)

	order := &entity.Order{ID: uuid.New(), Item: entity.ItemSnapshot{Images: []string{"a.jpg"}}}
	orders := NewOrderRepository(store)
	require.NoError(t, orders.Create(ctx, order))
	order.Item.Images[0] = "changed.jpg"

	stored, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, stored.Item.Images)

	policy := &entity.VersionedPolicy{ID: uuid.New(), ScopeID: entity.ScopeTerms, Payload: []byte(`{"title":"a"}`)}
	policies := NewPolicyRepository(store)
	require.NoError(t, policies.Create(ctx, policy))
	policy.Payload[2] = 'X'

	storedPolicy, err := policies.FindByID(ctx, policy.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"a"}`, string(storedPolicy.Payload))
}

func TestPolicyRepository_SingleActivePerScope(t *testing.T) {
	ctx := context.Background()
	repo := NewPolicyRepository(NewStore())

	first := &entity.VersionedPolicy{ID: uuid.New(), ScopeID: entity.ScopeTerms, Version: entity.InitialPolicyVersion, IsActive: true}
	second := &entity.VersionedPolicy{ID: uuid.New(), ScopeID: entity.ScopeTerms, Version: entity.InitialPolicyVersion.Next()}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.ErrorIs(t, repo.Activate(ctx, second.ID, time.Now()), repository.ErrActivePolicyExists)

	changed, err := repo.DeactivateScope(ctx, entity.ScopeTerms, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	require.NoError(t, repo.Activate(ctx, second.ID, time.Now()))

	active, err := repo.FindActive(ctx, entity.ScopeTerms)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	list, total, err := repo.ListByScope(ctx, entity.ScopeTerms, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestOrderRepository_UpdateStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	order := &entity.Order{ID: uuid.New(), Status: entity.OrderStatusPending, Version: 1}
	require.NoError(t, repo.Create(ctx, order))

	change := entity.OrderStatusChange{
		OrderID:     order.ID,
		FromStatus:  entity.OrderStatusPending,
		FromVersion: 1,
		ToStatus:    entity.OrderStatusConfirmed,
		At:          time.Now(),
	}
	require.NoError(t, repo.UpdateStatus(ctx, change))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, change), repository.ErrOrderStatusConflict)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestOrderAnalyticsRepository_MonthlyTotals(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	orders := NewOrderRepository(store)
	analytics := NewOrderAnalyticsRepository(store)
	ownerID := uuid.New()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	for _, o := range []*entity.Order{
		{ID: uuid.New(), OwnerID: ownerID, Status: entity.OrderStatusCompleted, TotalAmount: 100, FinalAmount: 103, CreatedAt: jan},
		{ID: uuid.New(), OwnerID: ownerID, Status: entity.OrderStatusCompleted, TotalAmount: 200, FinalAmount: 206, CreatedAt: feb},
		{ID: uuid.New(), OwnerID: ownerID, Status: entity.OrderStatusCancelled, TotalAmount: 50, CreatedAt: feb},
		{ID: uuid.New(), OwnerID: uuid.New(), Status: entity.OrderStatusCompleted, TotalAmount: 999, CreatedAt: feb},
	} {
		require.NoError(t, orders.Create(ctx, o))
	}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	counts, err := analytics.CountByStatus(ctx, ownerID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entity.OrderStatusCompleted])
	assert.Equal(t, int64(1), counts[entity.OrderStatusCancelled])

	monthly, err := analytics.MonthlyTotals(ctx, ownerID, entity.OrderStatusCompleted, from, to)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2026-01", monthly[0].Month)
	assert.Equal(t, int64(103), monthly[0].FinalAmount)
	assert.Equal(t, "2026-02", monthly[1].Month)
	assert.Equal(t, int64(200), monthly[1].RentalAmount)
}
