package postgres

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

func TestDiscountRepository_IncrementUsage(t *testing.T) {
	ctx := context.Background()
	updateSQL := `UPDATE "discounts" SET .*used_count.* WHERE code = \$1 AND \(usage_limit IS NULL OR used_count < usage_limit\)`

	t.Run("consumes one use", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDiscountRepository(db)

		mock.ExpectExec(updateSQL).
			WithArgs("SUMMER10").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementUsage(ctx, "SUMMER10"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit reached", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDiscountRepository(db)

		mock.ExpectExec(updateSQL).
			WithArgs("SUMMER10").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "discounts" WHERE code = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "type", "value", "used_count", "usage_limit"}).
				AddRow(uuid.New().String(), "SUMMER10", "percent", "10", 5, 5))

		err := repo.IncrementUsage(ctx, "SUMMER10")
		assert.ErrorIs(t, err, repository.ErrDiscountUsageExhausted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDiscountRepository(db)

		mock.ExpectExec(updateSQL).
			WithArgs("NOPE").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "discounts" WHERE code = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.IncrementUsage(ctx, "NOPE")
		assert.ErrorIs(t, err, repository.ErrDiscountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check constraint violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDiscountRepository(db)

		mock.ExpectExec(updateSQL).
			WithArgs("SUMMER10").
			WillReturnError(&pgconn.PgError{Code: pgCheckViolation, ConstraintName: "chk_discounts_used_count"})

		err := repo.IncrementUsage(ctx, "SUMMER10")
		assert.ErrorIs(t, err, repository.ErrDiscountUsageExhausted)
	})
}

func TestDiscountRepository_DecrementUsageNeverNegative(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDiscountRepository(db)

	mock.ExpectExec(`UPDATE "discounts" SET .* WHERE code = \$1 AND used_count > 0`).
		WithArgs("SUMMER10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "discounts" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "used_count"}).
			AddRow(uuid.New().String(), "SUMMER10", 0))

	require.NoError(t, repo.DecrementUsage(context.Background(), "SUMMER10"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDiscountRepository(db)

	mock.ExpectExec(`INSERT INTO "discounts"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_discounts_code"})

	err := repo.Create(context.Background(), &entity.Discount{ID: uuid.New(), Code: "SUMMER10"})
	assert.ErrorIs(t, err, repository.ErrDuplicateDiscountCode)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	change := entity.OrderStatusChange{
		OrderID:     orderID,
		FromStatus:  entity.OrderStatusPending,
		FromVersion: 1,
		ToStatus:    entity.OrderStatusConfirmed,
		ActorID:     uuid.New(),
		At:          time.Now(),
	}
	updateSQL := `UPDATE "orders" SET .*order_status.*version.* WHERE id = \$\d+ AND order_status = \$\d+ AND version = \$\d+`

	t.Run("swaps status and bumps version", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db)

		mock.ExpectExec(updateSQL).
			WithArgs("confirmed", sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(ctx, change))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db)

		mock.ExpectExec(updateSQL).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_status", "version"}).
				AddRow(orderID.String(), "confirmed", 2))

		err := repo.UpdateStatus(ctx, change)
		assert.ErrorIs(t, err, repository.ErrOrderStatusConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db)

		mock.ExpectExec(updateSQL).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.UpdateStatus(ctx, change)
		assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	})
}

func TestPolicyRepository_ActivateSecondActiveDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPolicyRepository(db)

	mock.ExpectExec(`UPDATE "policies" SET .*is_active.* WHERE id = \$\d+`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: activePolicyIndex})

	err := repo.Activate(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, repository.ErrActivePolicyExists)
}

func TestPolicyRepository_FindActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPolicyRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "policies" WHERE scope_id = \$1 AND is_active = \$2`).
		WithArgs("service-fee", true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "scope_id", "version", "is_active", "payload"}).
			AddRow(id.String(), "service_fee", "service-fee", 11, true, []byte(`{"ratePercent":"3.5"}`)))

	policy, err := repo.FindActive(context.Background(), entity.ScopeServiceFee)
	require.NoError(t, err)
	assert.Equal(t, id, policy.ID)
	assert.Equal(t, entity.PolicyVersion(11), policy.Version)
	assert.Equal(t, "v1.1", policy.Version.String())
	assert.JSONEq(t, `{"ratePercent":"3.5"}`, string(policy.Payload))
}

func TestPolicyRepository_FindActiveNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPolicyRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "policies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindActive(context.Background(), entity.ScopeTerms)
	assert.ErrorIs(t, err, repository.ErrPolicyNotFound)
}

func TestOrderAnalyticsRepository_MonthlyTotals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderAnalyticsRepository(db)

	mock.ExpectQuery(`SELECT to_char\(date_trunc\('month'.* FROM "orders" WHERE .* GROUP BY "month" ORDER BY month ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "orders", "rental_amount", "deposit_amount", "service_fee", "discount", "final_amount"}).
			AddRow("2026-01", 2, 300000, 20000, 9000, 5000, 324000).
			AddRow("2026-02", 1, 150000, 0, 4500, 0, 154500))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	totals, err := repo.MonthlyTotals(context.Background(), uuid.New(), entity.OrderStatusCompleted, from, from.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2026-01", totals[0].Month)
	assert.Equal(t, int64(2), totals[0].Orders)
	assert.Equal(t, int64(324000), totals[0].FinalAmount)
	assert.Equal(t, int64(4500), totals[1].ServiceFee)
}

func TestConstraintErrors(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: activePolicyIndex}

	assert.True(t, isUniqueConstraintViolation(unique))
	assert.True(t, isUniqueViolationOn(unique, activePolicyIndex))
	assert.False(t, isUniqueViolationOn(unique, "other"))
	assert.True(t, isCheckConstraintViolation(&pgconn.PgError{Code: pgCheckViolation}))
	assert.True(t, isForeignKeyConstraintViolation(&pgconn.PgError{Code: pgForeignKeyViolation}))
	assert.True(t, isNotNullConstraintViolation(&pgconn.PgError{Code: pgNotNullViolation}))
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintViolation(gorm.ErrRecordNotFound))
}

func TestDeviceRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	userID := uuid.New()
	storedID := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO "user_devices" .* ON CONFLICT \("user_id","device_id"\) DO UPDATE SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "fcm_token", "device_id", "platform", "is_active", "created_at", "updated_at"}).
			AddRow(storedID.String(), userID.String(), "token-2", "phone", "ios", true, created, time.Now()))

	device := &entity.UserDevice{UserID: userID, FCMToken: "token-2", DeviceID: "phone", Platform: entity.PlatformIOS}
	require.NoError(t, repo.Upsert(context.Background(), device))
	assert.Equal(t, storedID, device.ID)
	assert.Equal(t, created, device.CreatedAt)
	assert.True(t, device.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_Deactivate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown device", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDeviceRepository(db)

		mock.ExpectExec(`UPDATE "user_devices" SET .*is_active.* WHERE user_id = \$\d+ AND device_id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Deactivate(ctx, userID, "tablet"), repository.ErrDeviceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid tokens", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDeviceRepository(db)

		mock.ExpectExec(`UPDATE "user_devices" SET .*is_active.* WHERE fcm_token IN \(\$\d+,\$\d+\) AND is_active = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		changed, err := repo.DeactivateTokens(ctx, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no tokens skips the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDeviceRepository(db)

		changed, err := repo.DeactivateTokens(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, changed)

		devices, err := repo.FindActiveByUsers(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, devices)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
