// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type policyService struct {
	txManager       repository.TransactionManager
	policyRepo      repository.PolicyRepository
	defaultFeeRate  decimal.Decimal
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
	now             func() time.Time
}

// PolicyServiceParams holds dependencies for PolicyService, injected by Fx.
type PolicyServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	PolicyRepo repository.PolicyRepository
	Config     *config.Config
	Logger     *slog.Logger
}

// NewPolicyService creates a new policy service instance
func NewPolicyService(params PolicyServiceParams) usecase.PolicyUsecase {
	return &policyService{
		txManager:       params.TxManager,
		policyRepo:      params.PolicyRepo,
		defaultFeeRate:  params.Config.ServiceFee.DefaultRatePercent,
		defaultPageSize: params.Config.Pagination.DefaultPageSize,
		maxPageSize:     params.Config.Pagination.MaxPageSize,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *policyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePolicy stores a v1.0 document for the scope.
func (srv *policyService) CreatePolicy(ctx context.Context, input *usecase.CreatePolicyInput) (*entity.VersionedPolicy, error) {
	kind := input.Scope.Kind()
	if err := validatePolicyDocument(kind, input); err != nil {
		return nil, err
	}

	now := srv.now()
	policy := &entity.VersionedPolicy{
		ID:             uuid.New(),
		Kind:           kind,
		ScopeID:        input.Scope,
		Version:        entity.InitialPolicyVersion,
		EffectiveFrom:  input.EffectiveFrom,
		EffectiveTo:    input.EffectiveTo,
		Payload:        input.Payload,
		ChangesSummary: input.ChangesSummary,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		policyRepo := repos.NewPolicyRepository()

		typeActive, err := srv.checkPrivacyType(ctx, repos, input.Scope)
		if err != nil {
			return err
		}

		if err := policyRepo.LockScope(ctx, input.Scope); err != nil {
			return wrapRepoError(err, "failed to lock policy scope")
		}

		if kind != entity.PolicyKindServiceFee && typeActive {
			count, err := policyRepo.CountByScope(ctx, input.Scope)
			if err != nil {
				return wrapRepoError(err, "failed to count scope documents")
			}
			if count == 0 {
				policy.IsActive = true
				policy.ActivatedAt = &now
			}
		}

		if err := policyRepo.Create(ctx, policy); err != nil {
			if errors.Is(err, repository.ErrActivePolicyExists) {
				return errors.Wrap(domainerrors.ErrConflict, "scope received an active document concurrently")
			}

			return wrapRepoError(err, "failed to create policy")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Policy created",
		slog.String("policy_id", policy.ID.String()),
		slog.String("scope", input.Scope.String()),
		slog.Bool("active", policy.IsActive),
	)

	return policy, nil
}

// ActivatePolicy deactivates the current active document of the scope and activates policyID.
func (srv *policyService) ActivatePolicy(ctx context.Context, scope entity.PolicyScope, policyID uuid.UUID) (*entity.VersionedPolicy, error) {
	var activated *entity.VersionedPolicy

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		policyRepo := repos.NewPolicyRepository()

		if err := policyRepo.LockScope(ctx, scope); err != nil {
			return wrapRepoError(err, "failed to lock policy scope")
		}

		target, err := findPolicyInScope(ctx, policyRepo, scope, policyID)
		if err != nil {
			return err
		}
		if target.IsActive {
			return errors.Wrapf(domainerrors.ErrPolicyAlreadyActive, "policy %s", policyID)
		}

		typeActive, err := srv.checkPrivacyType(ctx, repos, scope)
		if err != nil {
			return err
		}
		if !typeActive {
			return errors.Wrapf(domainerrors.ErrPrivacyTypeInactive, "scope %s", scope)
		}

		now := srv.now()
		if _, err := policyRepo.DeactivateScope(ctx, scope, now); err != nil {
			return wrapRepoError(err, "failed to deactivate current policy")
		}
		if err := policyRepo.Activate(ctx, policyID, now); err != nil {
			if errors.Is(err, repository.ErrActivePolicyExists) {
				return errors.Wrap(domainerrors.ErrConflict, "scope received an active document concurrently")
			}

			return wrapRepoError(err, "failed to activate policy")
		}

		target.IsActive = true
		target.ActivatedAt = &now
		target.UpdatedAt = now
		activated = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Policy activated",
		slog.String("policy_id", policyID.String()),
		slog.String("scope", scope.String()),
		slog.String("version", activated.Version.String()),
	)

	return activated, nil
}

// SupersedePolicy locks the active document, deactivates it and inserts its successor as active.
func (srv *policyService) SupersedePolicy(ctx context.Context, input *usecase.SupersedePolicyInput) (*entity.VersionedPolicy, error) {
	kind := input.Scope.Kind()
	if err := validatePolicyDocument(kind, &usecase.CreatePolicyInput{
		Scope:         input.Scope,
		Payload:       input.Payload,
		EffectiveFrom: input.EffectiveFrom,
		EffectiveTo:   input.EffectiveTo,
	}); err != nil {
		return nil, err
	}

	var successor *entity.VersionedPolicy

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		policyRepo := repos.NewPolicyRepository()

		current, err := policyRepo.FindActiveForUpdate(ctx, input.Scope)
		if err != nil {
			if errors.Is(err, repository.ErrPolicyNotFound) {
				return errors.Wrapf(domainerrors.ErrNoActivePolicy, "scope %s", input.Scope)
			}

			return wrapRepoError(err, "failed to lock active policy")
		}

		now := srv.now()
		if err := policyRepo.Deactivate(ctx, current.ID, now); err != nil {
			return wrapRepoError(err, "failed to deactivate superseded policy")
		}

		successor = &entity.VersionedPolicy{
			ID:             uuid.New(),
			Kind:           kind,
			ScopeID:        input.Scope,
			Version:        current.Version.Next(),
			EffectiveFrom:  input.EffectiveFrom,
			EffectiveTo:    input.EffectiveTo,
			IsActive:       true,
			Payload:        input.Payload,
			ChangesSummary: input.ChangesSummary,
			CreatedBy:      input.CreatedBy,
			ActivatedAt:    &now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := policyRepo.Create(ctx, successor); err != nil {
			return wrapRepoError(err, "failed to create successor policy")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Policy superseded",
		slog.String("policy_id", successor.ID.String()),
		slog.String("scope", input.Scope.String()),
		slog.String("version", successor.Version.String()),
	)

	return successor, nil
}

// GetActivePolicy returns the active document. Without one, the service-fee scope reports
// the configured fallback and the other scopes report none.
func (srv *policyService) GetActivePolicy(ctx context.Context, scope entity.PolicyScope) (*entity.ActivePolicy, error) {
	policy, err := srv.policyRepo.FindActive(ctx, scope)
	if err == nil {
		return &entity.ActivePolicy{Policy: policy, Source: entity.PolicySourceExplicit}, nil
	}
	if !errors.Is(err, repository.ErrPolicyNotFound) {
		return nil, wrapRepoError(err, "failed to find active policy")
	}

	if scope == entity.ScopeServiceFee {
		return &entity.ActivePolicy{Source: entity.PolicySourceFallback}, nil
	}

	return &entity.ActivePolicy{Source: entity.PolicySourceNone}, nil
}

// GetServiceFeeRate resolves the service-fee rate in force.
func (srv *policyService) GetServiceFeeRate(ctx context.Context) (*entity.ServiceFeeRate, error) {
	return resolveServiceFeeRate(ctx, srv.policyRepo, srv.defaultFeeRate)
}

// DeactivatePolicy clears the active flag of a document in the scope.
func (srv *policyService) DeactivatePolicy(ctx context.Context, scope entity.PolicyScope, policyID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		policyRepo := repos.NewPolicyRepository()

		if _, err := findPolicyInScope(ctx, policyRepo, scope, policyID); err != nil {
			return err
		}
		if err := policyRepo.Deactivate(ctx, policyID, srv.now()); err != nil {
			return wrapRepoError(err, "failed to deactivate policy")
		}

		return nil
	})
}

// DeletePolicy removes a document that is not active.
func (srv *policyService) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		policyRepo := repos.NewPolicyRepository()

		policy, err := policyRepo.FindByID(ctx, policyID)
		if err != nil {
			return mapPolicyLookupError(err, policyID)
		}
		if policy.IsActive {
			return errors.Wrapf(domainerrors.ErrPolicyActiveDelete, "policy %s", policyID)
		}
		if err := policyRepo.Delete(ctx, policyID); err != nil {
			return mapPolicyLookupError(err, policyID)
		}

		return nil
	})
}

// ListPolicies lists the documents of a scope.
func (srv *policyService) ListPolicies(ctx context.Context, scope entity.PolicyScope, page usecase.PageRequest) (*usecase.Page[*entity.VersionedPolicy], error) {
	page = page.Normalize(srv.defaultPageSize, srv.maxPageSize)

	policies, total, err := srv.policyRepo.ListByScope(ctx, scope, page.Offset(), page.PageSize)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list policies")
	}

	return &usecase.Page[*entity.VersionedPolicy]{
		Items:    policies,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// GetPolicy returns one document version.
func (srv *policyService) GetPolicy(ctx context.Context, policyID uuid.UUID) (*entity.VersionedPolicy, error) {
	policy, err := srv.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return nil, mapPolicyLookupError(err, policyID)
	}

	return policy, nil
}

// checkPrivacyType reports whether the privacy type behind a privacy scope is active.
// Scopes of other kinds always report true.
func (srv *policyService) checkPrivacyType(ctx context.Context, repos repository.RepositoryFactory, scope entity.PolicyScope) (bool, error) {
	typeID, ok := scope.PrivacyTypeID()
	if !ok {
		return true, nil
	}

	privacyType, err := repos.NewPrivacyTypeRepository().FindByIDForUpdate(ctx, typeID)
	if err != nil {
		if errors.Is(err, repository.ErrPrivacyTypeNotFound) {
			return false, errors.Wrapf(domainerrors.ErrPrivacyTypeNotFound, "privacy type %s", typeID)
		}

		return false, wrapRepoError(err, "failed to find privacy type")
	}

	return privacyType.IsActive, nil
}

func findPolicyInScope(ctx context.Context, policyRepo repository.PolicyRepository, scope entity.PolicyScope, policyID uuid.UUID) (*entity.VersionedPolicy, error) {
	policy, err := policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return nil, mapPolicyLookupError(err, policyID)
	}
	if policy.ScopeID != scope {
		return nil, errors.Wrapf(domainerrors.ErrPolicyNotFound, "policy %s is not in scope %s", policyID, scope)
	}

	return policy, nil
}

func mapPolicyLookupError(err error, policyID uuid.UUID) error {
	if errors.Is(err, repository.ErrPolicyNotFound) {
		return errors.Wrapf(domainerrors.ErrPolicyNotFound, "policy %s", policyID)
	}

	return wrapRepoError(err, "failed to find policy")
}

func validatePolicyDocument(kind entity.PolicyKind, input *usecase.CreatePolicyInput) error {
	if input.EffectiveFrom.IsZero() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "effective_from is required")
	}
	if input.EffectiveTo != nil && !input.EffectiveTo.After(input.EffectiveFrom) {
		return errors.Wrap(domainerrors.ErrValidationFailed, "effective_to must be after effective_from")
	}
	if err := entity.ValidatePolicyPayload(kind, input.Payload); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid policy payload")
	}

	return nil
}

// resolveServiceFeeRate reads the active service-fee document, falling back to defaultRate.
func resolveServiceFeeRate(ctx context.Context, policyRepo repository.PolicyRepository, defaultRate decimal.Decimal) (*entity.ServiceFeeRate, error) {
	policy, err := policyRepo.FindActive(ctx, entity.ScopeServiceFee)
	if err != nil {
		if errors.Is(err, repository.ErrPolicyNotFound) {
			return &entity.ServiceFeeRate{
				RatePercent: defaultRate,
				Source:      entity.PolicySourceFallback,
			}, nil
		}

		return nil, wrapRepoError(err, "failed to find service fee policy")
	}

	fee, err := entity.DecodeServiceFeePayload(policy.Payload)
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrInternalError, "active service fee policy %s: %v", policy.ID, err)
	}

	policyID := policy.ID
	version := policy.Version

	return &entity.ServiceFeeRate{
		RatePercent: fee.RatePercent,
		Source:      entity.PolicySourceExplicit,
		PolicyID:    &policyID,
		Version:     &version,
	}, nil
}
