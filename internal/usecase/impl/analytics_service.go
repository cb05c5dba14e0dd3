package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type analyticsService struct {
	analyticsRepo repository.OrderAnalyticsRepository
	logger        *slog.Logger
}

// AnalyticsServiceParams holds dependencies for AnalyticsService, injected by Fx.
type AnalyticsServiceParams struct {
	fx.In

	AnalyticsRepo repository.OrderAnalyticsRepository
	Logger        *slog.Logger
}

// NewAnalyticsService creates a new analytics service instance
func NewAnalyticsService(params AnalyticsServiceParams) usecase.AnalyticsUsecase {
	return &analyticsService{
		analyticsRepo: params.AnalyticsRepo,
		logger:        params.Logger,
	}
}

// OwnerSummary counts the owner's orders per status and totals the completed ones.
func (srv *analyticsService) OwnerSummary(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*entity.OwnerSummary, error) {
	if !to.After(from) {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "to must be after from")
	}

	counts, err := srv.analyticsRepo.CountByStatus(ctx, ownerID, from, to)
	if err != nil {
		return nil, wrapRepoError(err, "failed to count orders by status")
	}
	statusCounts := make(map[entity.OrderStatus]int64, len(entity.AllOrderStatuses))
	for _, status := range entity.AllOrderStatuses {
		statusCounts[status] = counts[status]
	}

	monthly, err := srv.analyticsRepo.MonthlyTotals(ctx, ownerID, entity.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, wrapRepoError(err, "failed to total completed orders")
	}
	if monthly == nil {
		monthly = []entity.MonthlyTotals{}
	}

	var completed entity.OrderTotals
	for _, month := range monthly {
		completed.Orders += month.Orders
		completed.RentalAmount += month.RentalAmount
		completed.DepositAmount += month.DepositAmount
		completed.ServiceFee += month.ServiceFee
		completed.Discount += month.Discount
		completed.FinalAmount += month.FinalAmount
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Owner summary computed",
		slog.String("owner_id", ownerID.String()),
		slog.Int64("completed_orders", completed.Orders),
	)

	return &entity.OwnerSummary{
		OwnerID:      ownerID,
		From:         from,
		To:           to,
		StatusCounts: statusCounts,
		Completed:    completed,
		Monthly:      monthly,
	}, nil
}
