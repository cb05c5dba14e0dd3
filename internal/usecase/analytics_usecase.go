package usecase

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// AnalyticsUsecase defines the interface for owner reporting
type AnalyticsUsecase interface {
	// OwnerSummary aggregates an owner's orders created in [from, to)
	OwnerSummary(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*entity.OwnerSummary, error)
}
