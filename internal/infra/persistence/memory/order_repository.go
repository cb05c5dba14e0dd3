package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

type orderRepository struct {
	acc accessor
}

func (repo *orderRepository) Create(_ context.Context, order *entity.Order) error {
	return repo.acc.update(func(s *state) error {
		now := time.Now()
		if order.CreatedAt.IsZero() {
			order.CreatedAt = now
		}
		if order.UpdatedAt.IsZero() {
			order.UpdatedAt = now
		}
		s.orders[order.ID] = *detachOrder(*order)

		return nil
	})
}

func (repo *orderRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	var found *entity.Order
	err := repo.acc.view(func(s *state) error {
		order, ok := s.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		found = detachOrder(order)

		return nil
	})

	return found, err
}

func (repo *orderRepository) List(_ context.Context, filter entity.OrderListFilter) ([]*entity.Order, int64, error) {
	var rows []*entity.Order
	err := repo.acc.view(func(s *state) error {
		for _, order := range s.orders {
			partyID := order.RenterID
			if filter.Party == entity.PartyOwner {
				partyID = order.OwnerID
			}
			if partyID != filter.UserID {
				continue
			}
			if filter.Status != nil && order.Status != *filter.Status {
				continue
			}
			rows = append(rows, detachOrder(order))
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(rows, func(a, b *entity.Order) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.ID.String(), b.ID.String()))
	})

	return paginate(rows, (filter.Page-1)*filter.PageSize, filter.PageSize), int64(len(rows)), nil
}

func (repo *orderRepository) UpdateStatus(_ context.Context, change entity.OrderStatusChange) error {
	return repo.acc.update(func(s *state) error {
		order, ok := s.orders[change.OrderID]
		if !ok {
			return repository.ErrOrderNotFound
		}
		if order.Status != change.FromStatus || order.Version != change.FromVersion {
			return repository.ErrOrderStatusConflict
		}
		order.Status = change.ToStatus
		order.Version++
		order.UpdatedAt = change.At
		if change.DisputeID != nil {
			order.DisputeID = clonePtr(change.DisputeID)
		}
		if change.CancelledBy != nil {
			order.CancelledBy = clonePtr(change.CancelledBy)
			order.CancelReason = change.CancelReason
		}
		s.orders[order.ID] = order

		return nil
	})
}

func (repo *orderRepository) UpdateContractSigned(_ context.Context, id uuid.UUID, signed bool, at time.Time) error {
	return repo.modify(id, func(order *entity.Order) {
		order.IsContractSigned = signed
		order.UpdatedAt = at
	})
}

func (repo *orderRepository) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus, at time.Time) error {
	return repo.modify(id, func(order *entity.Order) {
		order.PaymentStatus = status
		order.UpdatedAt = at
	})
}

func (repo *orderRepository) modify(id uuid.UUID, fn func(order *entity.Order)) error {
	return repo.acc.update(func(s *state) error {
		order, ok := s.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		fn(&order)
		s.orders[id] = order

		return nil
	})
}

func (repo *orderRepository) AppendHistory(_ context.Context, history *entity.OrderStatusHistory) error {
	return repo.acc.update(func(s *state) error {
		if history.CreatedAt.IsZero() {
			history.CreatedAt = time.Now()
		}
		s.history[history.OrderID] = append(s.history[history.OrderID], *detachHistory(*history))

		return nil
	})
}

func (repo *orderRepository) ListHistory(_ context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	var rows []*entity.OrderStatusHistory
	err := repo.acc.view(func(s *state) error {
		for _, history := range s.history[orderID] {
			rows = append(rows, detachHistory(history))
		}

		return nil
	})

	return rows, err
}

type orderAnalyticsRepository struct {
	acc accessor
}

func (repo *orderAnalyticsRepository) CountByStatus(_ context.Context, ownerID uuid.UUID, from, to time.Time) (map[entity.OrderStatus]int64, error) {
	counts := make(map[entity.OrderStatus]int64)
	err := repo.acc.view(func(s *state) error {
		for _, order := range s.orders {
			if order.OwnerID == ownerID && inRange(order.CreatedAt, from, to) {
				counts[order.Status]++
			}
		}

		return nil
	})

	return counts, err
}

func (repo *orderAnalyticsRepository) MonthlyTotals(_ context.Context, ownerID uuid.UUID, status entity.OrderStatus, from, to time.Time) ([]entity.MonthlyTotals, error) {
	buckets := make(map[string]*entity.OrderTotals)
	err := repo.acc.view(func(s *state) error {
		for _, order := range s.orders {
			if order.OwnerID != ownerID || order.Status != status || !inRange(order.CreatedAt, from, to) {
				continue
			}
			month := order.CreatedAt.UTC().Format("2006-01")
			if buckets[month] == nil {
				buckets[month] = &entity.OrderTotals{}
			}
			buckets[month].Add(&order)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	months := slices.Sorted(maps.Keys(buckets))
	totals := make([]entity.MonthlyTotals, len(months))
	for i, month := range months {
		totals[i] = entity.MonthlyTotals{Month: month, OrderTotals: *buckets[month]}
	}

	return totals, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
