package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
)

type discountRepository struct {
	acc accessor
}

func (repo *discountRepository) Create(_ context.Context, discount *entity.Discount) error {
	return repo.acc.update(func(s *state) error {
		if _, ok := s.discounts[discount.Code]; ok {
			return repository.ErrDuplicateDiscountCode
		}
		now := time.Now()
		if discount.CreatedAt.IsZero() {
			discount.CreatedAt = now
		}
		if discount.UpdatedAt.IsZero() {
			discount.UpdatedAt = now
		}
		s.discounts[discount.Code] = *detachDiscount(*discount)

		return nil
	})
}

func (repo *discountRepository) FindByCode(_ context.Context, code string) (*entity.Discount, error) {
	var found *entity.Discount
	err := repo.acc.view(func(s *state) error {
		discount, ok := s.discounts[code]
		if !ok {
			return repository.ErrDiscountNotFound
		}
		found = detachDiscount(discount)

		return nil
	})

	return found, err
}

func (repo *discountRepository) ListAvailable(_ context.Context, filter repository.DiscountAvailabilityFilter) ([]*entity.Discount, error) {
	var rows []*entity.Discount
	err := repo.acc.view(func(s *state) error {
		for _, discount := range s.discounts {
			if discount.IsSpecial != filter.IsSpecial ||
				!discount.InWindow(filter.Now) ||
				discount.Exhausted() ||
				!filter.Subject.Matches(&discount) {
				continue
			}
			rows = append(rows, detachDiscount(discount))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b *entity.Discount) int {
		return cmp.Or(a.EndAt.Compare(b.EndAt), strings.Compare(a.Code, b.Code))
	})

	return paginate(rows, filter.Offset, filter.Limit), nil
}

func (repo *discountRepository) List(_ context.Context, offset, limit int) ([]*entity.Discount, int64, error) {
	var rows []*entity.Discount
	err := repo.acc.view(func(s *state) error {
		for _, discount := range s.discounts {
			rows = append(rows, detachDiscount(discount))
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(rows, func(a, b *entity.Discount) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.Code, b.Code))
	})

	return paginate(rows, offset, limit), int64(len(rows)), nil
}

func (repo *discountRepository) IncrementUsage(_ context.Context, code string) error {
	return repo.acc.update(func(s *state) error {
		discount, ok := s.discounts[code]
		if !ok {
			return repository.ErrDiscountNotFound
		}
		if discount.Exhausted() {
			return repository.ErrDiscountUsageExhausted
		}
		discount.UsedCount++
		discount.UpdatedAt = time.Now()
		s.discounts[code] = discount

		return nil
	})
}

func (repo *discountRepository) DecrementUsage(_ context.Context, code string) error {
	return repo.acc.update(func(s *state) error {
		discount, ok := s.discounts[code]
		if !ok {
			return repository.ErrDiscountNotFound
		}
		if discount.UsedCount == 0 {
			return nil
		}
		discount.UsedCount--
		discount.UpdatedAt = time.Now()
		s.discounts[code] = discount

		return nil
	})
}
