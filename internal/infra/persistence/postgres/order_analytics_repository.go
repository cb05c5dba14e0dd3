package postgres

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderAnalyticsRepository struct {
	db *gorm.DB
}

// NewOrderAnalyticsRepository creates a reporting repository over the orders table.
// Reads go to replicas when dbresolver has any configured.
func NewOrderAnalyticsRepository(db *gorm.DB) repository.OrderAnalyticsRepository {
	return &orderAnalyticsRepository{db: db}
}

type statusCountRow struct {
	OrderStatus string
	Count       int64
}

type monthlyTotalsRow struct {
	Month         string
	Orders        int64
	RentalAmount  int64
	DepositAmount int64
	ServiceFee    int64
	Discount      int64
	FinalAmount   int64
}

// CountByStatus counts an owner's orders per status
func (repo *orderAnalyticsRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[entity.OrderStatus]int64, error) {
	var rows []statusCountRow
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("order_status, COUNT(*) AS count").
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count orders by status")
	}

	counts := make(map[entity.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[entity.OrderStatus(row.OrderStatus)] = row.Count
	}

	return counts, nil
}

// MonthlyTotals sums an owner's orders per UTC calendar month
func (repo *orderAnalyticsRepository) MonthlyTotals(ctx context.Context, ownerID uuid.UUID, status entity.OrderStatus, from, to time.Time) ([]entity.MonthlyTotals, error) {
	var rows []monthlyTotalsRow
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select(`to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month,
			COUNT(*) AS orders,
			COALESCE(SUM(total_amount), 0) AS rental_amount,
			COALESCE(SUM(deposit_amount), 0) AS deposit_amount,
			COALESCE(SUM(service_fee), 0) AS service_fee,
			COALESCE(SUM(total_discount_applied), 0) AS discount,
			COALESCE(SUM(final_amount), 0) AS final_amount`).
		Where("owner_id = ? AND order_status = ? AND created_at >= ? AND created_at < ?", ownerID, string(status), from, to).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to aggregate monthly totals")
	}

	totals := make([]entity.MonthlyTotals, len(rows))
	for i, row := range rows {
		totals[i] = entity.MonthlyTotals{
			Month: row.Month,
			OrderTotals: entity.OrderTotals{
				Orders:        row.Orders,
				RentalAmount:  row.RentalAmount,
				DepositAmount: row.DepositAmount,
				ServiceFee:    row.ServiceFee,
				Discount:      row.Discount,
				FinalAmount:   row.FinalAmount,
			},
		}
	}

	return totals, nil
}
