package impl

import (
	"context"
	"log/slog"
	"time"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type discountService struct {
	discountRepo    repository.DiscountRepository
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
	now             func() time.Time
}

// DiscountServiceParams holds dependencies for DiscountService, injected by Fx.
type DiscountServiceParams struct {
	fx.In

	DiscountRepo repository.DiscountRepository
	Config       *config.Config
	Logger       *slog.Logger
}

// NewDiscountService creates a new discount service instance
func NewDiscountService(params DiscountServiceParams) usecase.DiscountUsecase {
	return &discountService{
		discountRepo:    params.DiscountRepo,
		defaultPageSize: params.Config.Pagination.DefaultPageSize,
		maxPageSize:     params.Config.Pagination.MaxPageSize,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *discountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAvailable returns the usable public and special codes for the subject.
func (srv *discountService) ListAvailable(ctx context.Context, subject entity.DiscountSubject, page usecase.PageRequest) (*entity.AvailableDiscounts, error) {
	page = page.Normalize(srv.defaultPageSize, srv.maxPageSize)
	now := srv.now()

	list := func(special bool) ([]*entity.Discount, error) {
		discounts, err := srv.discountRepo.ListAvailable(ctx, repository.DiscountAvailabilityFilter{
			Now:       now,
			IsSpecial: special,
			Subject:   subject,
			Offset:    page.Offset(),
			Limit:     page.PageSize,
		})
		if err != nil {
			return nil, wrapRepoError(err, "failed to list available discounts")
		}

		return discounts, nil
	}

	public, err := list(false)
	if err != nil {
		return nil, err
	}
	special, err := list(true)
	if err != nil {
		return nil, err
	}

	return &entity.AvailableDiscounts{Public: public, Special: special}, nil
}

// ValidateDiscount quotes a code against a base amount without touching its counter.
func (srv *discountService) ValidateDiscount(ctx context.Context, input *usecase.ValidateDiscountInput) (*entity.DiscountQuote, error) {
	if input.BaseAmount < 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "base amount must not be negative")
	}

	discount, err := findDiscount(ctx, srv.discountRepo, input.Code)
	if err != nil {
		return nil, err
	}

	return quoteDiscount(discount, srv.now(), input.BaseAmount, entity.DiscountSubject{
		OwnerID: input.OwnerID,
		ItemID:  input.ItemID,
	})
}

// CreateDiscount validates and stores a new code.
func (srv *discountService) CreateDiscount(ctx context.Context, input *usecase.CreateDiscountInput) (*entity.Discount, error) {
	now := srv.now()
	discount := &entity.Discount{
		ID:                uuid.New(),
		Code:              entity.NormalizeDiscountCode(input.Code),
		Description:       input.Description,
		Type:              input.Type,
		Value:             input.Value,
		MaxDiscountAmount: input.MaxDiscountAmount,
		MinOrderAmount:    input.MinOrderAmount,
		StartAt:           input.StartAt,
		EndAt:             input.EndAt,
		UsageLimit:        input.UsageLimit,
		IsSpecial:         input.IsSpecial,
		OwnerID:           input.OwnerID,
		ItemID:            input.ItemID,
		CreatedBy:         input.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}

	if err := srv.discountRepo.Create(ctx, discount); err != nil {
		if errors.Is(err, repository.ErrDuplicateDiscountCode) {
			return nil, errors.Wrapf(domainerrors.ErrDiscountCodeTaken, "code %s", discount.Code)
		}

		return nil, wrapRepoError(err, "failed to create discount")
	}

	srv.log(ctx).Info("Discount created",
		slog.String("code", discount.Code),
		slog.Bool("special", discount.IsSpecial),
	)

	return discount, nil
}

// GetDiscount returns a code.
func (srv *discountService) GetDiscount(ctx context.Context, code string) (*entity.Discount, error) {
	return findDiscount(ctx, srv.discountRepo, code)
}

// ListDiscounts lists every code.
func (srv *discountService) ListDiscounts(ctx context.Context, page usecase.PageRequest) (*usecase.Page[*entity.Discount], error) {
	page = page.Normalize(srv.defaultPageSize, srv.maxPageSize)

	discounts, total, err := srv.discountRepo.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list discounts")
	}

	return &usecase.Page[*entity.Discount]{
		Items:    discounts,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func validateDiscount(d *entity.Discount) error {
	switch {
	case d.Code == "":
		return errors.Wrap(domainerrors.ErrValidationFailed, "code is required")
	case d.MinOrderAmount < 0:
		return errors.Wrap(domainerrors.ErrValidationFailed, "min order amount must not be negative")
	case d.StartAt.IsZero() || d.EndAt.IsZero():
		return errors.Wrap(domainerrors.ErrValidationFailed, "start_at and end_at are required")
	case !d.EndAt.After(d.StartAt):
		return errors.Wrap(domainerrors.ErrValidationFailed, "end_at must be after start_at")
	case d.UsageLimit != nil && *d.UsageLimit < 1:
		return errors.Wrap(domainerrors.ErrValidationFailed, "usage limit must be at least 1")
	}
	if err := d.Terms().Validate(); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid discount terms")
	}

	return nil
}

func findDiscount(ctx context.Context, discountRepo repository.DiscountRepository, code string) (*entity.Discount, error) {
	code = entity.NormalizeDiscountCode(code)
	discount, err := discountRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, errors.Wrapf(domainerrors.ErrDiscountNotFound, "code %s", code)
		}

		return nil, wrapRepoError(err, "failed to find discount")
	}

	return discount, nil
}

func consumeDiscount(ctx context.Context, discountRepo repository.DiscountRepository, code string) error {
	if err := discountRepo.IncrementUsage(ctx, code); err != nil {
		switch {
		case errors.Is(err, repository.ErrDiscountNotFound):
			return errors.Wrapf(domainerrors.ErrDiscountNotFound, "code %s", code)
		case errors.Is(err, repository.ErrDiscountUsageExhausted):
			return errors.Wrapf(domainerrors.ErrDiscountExhausted, "code %s", code)
		default:
			return wrapRepoError(err, "failed to consume discount")
		}
	}

	return nil
}

// quoteDiscount checks eligibility and computes the amount the code takes off base.
func quoteDiscount(d *entity.Discount, now time.Time, base int64, subject entity.DiscountSubject) (*entity.DiscountQuote, error) {
	if reason := d.Ineligibility(now, base, subject); reason != "" {
		return nil, errors.Wrapf(domainerrors.ErrDiscountIneligible.WithDetails(string(reason)), "code %s", d.Code)
	}

	return &entity.DiscountQuote{
		Code:          d.Code,
		Type:          d.Type,
		Value:         d.Value,
		IsSpecial:     d.IsSpecial,
		BaseAmount:    base,
		AmountApplied: pricing.DiscountAmount(d.Terms(), base),
	}, nil
}
