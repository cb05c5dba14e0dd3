package impl

import (
	"context"
	"log/slog"
	"strings"
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

type privacyTypeService struct {
	txManager       repository.TransactionManager
	privacyTypeRepo repository.PrivacyTypeRepository
	logger          *slog.Logger
	now             func() time.Time
}

// PrivacyTypeServiceParams holds dependencies for PrivacyTypeService, injected by Fx.
type PrivacyTypeServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	PrivacyTypeRepo repository.PrivacyTypeRepository
	Logger          *slog.Logger
}

// NewPrivacyTypeService creates a new privacy type service instance
func NewPrivacyTypeService(params PrivacyTypeServiceParams) usecase.PrivacyTypeUsecase {
	return &privacyTypeService{
		txManager:       params.TxManager,
		privacyTypeRepo: params.PrivacyTypeRepo,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *privacyTypeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePrivacyType stores a new active privacy type.
func (srv *privacyTypeService) CreatePrivacyType(ctx context.Context, input *usecase.CreatePrivacyTypeInput) (*entity.PrivacyType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "privacy type name is required")
	}

	now := srv.now()
	privacyType := &entity.PrivacyType{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := srv.privacyTypeRepo.Create(ctx, privacyType); err != nil {
		if errors.Is(err, repository.ErrDuplicatePrivacyType) {
			return nil, errors.Wrapf(domainerrors.ErrConflict, "privacy type %q already exists", name)
		}

		return nil, wrapRepoError(err, "failed to create privacy type")
	}

	return privacyType, nil
}

// ListPrivacyTypes lists privacy types ordered by name.
func (srv *privacyTypeService) ListPrivacyTypes(ctx context.Context, onlyActive bool) ([]*entity.PrivacyType, error) {
	types, err := srv.privacyTypeRepo.List(ctx, onlyActive)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list privacy types")
	}

	return types, nil
}

// SetPrivacyTypeActive flips the active flag. Deactivating a type deactivates every
// privacy document in its scope within the same transaction.
func (srv *privacyTypeService) SetPrivacyTypeActive(ctx context.Context, id uuid.UUID, active bool) (*entity.PrivacyType, error) {
	var (
		updated     *entity.PrivacyType
		deactivated int64
	)

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		typeRepo := repos.NewPrivacyTypeRepository()

		privacyType, err := typeRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPrivacyTypeNotFound) {
				return errors.Wrapf(domainerrors.ErrPrivacyTypeNotFound, "privacy type %s", id)
			}

			return wrapRepoError(err, "failed to find privacy type")
		}

		now := srv.now()
		if privacyType.IsActive != active {
			if err := typeRepo.SetActive(ctx, id, active, now); err != nil {
				return wrapRepoError(err, "failed to update privacy type")
			}
			privacyType.IsActive = active
			privacyType.UpdatedAt = now
		}

		if !active {
			deactivated, err = repos.NewPolicyRepository().DeactivateScope(ctx, privacyType.Scope(), now)
			if err != nil {
				return wrapRepoError(err, "failed to deactivate privacy documents")
			}
		}
		updated = privacyType

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Privacy type updated",
		slog.String("privacy_type_id", id.String()),
		slog.Bool("active", active),
		slog.Int64("documents_deactivated", deactivated),
	)

	return updated, nil
}
