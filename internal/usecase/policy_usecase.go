package usecase

import (
	"context"
	"encoding/json"
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePolicyInput is a new document for a scope.
type CreatePolicyInput struct {
	Scope          entity.PolicyScope
	Payload        json.RawMessage
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	ChangesSummary string
	CreatedBy      uuid.UUID
}

// SupersedePolicyInput replaces the active document of a scope with a new version.
type SupersedePolicyInput struct {
	Scope          entity.PolicyScope
	Payload        json.RawMessage
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	ChangesSummary string
	CreatedBy      uuid.UUID
}

// PolicyUsecase defines the interface for versioned policy documents
type PolicyUsecase interface {
	// CreatePolicy stores a v1.0 document. The first terms or privacy document of a scope starts active.
	CreatePolicy(ctx context.Context, input *CreatePolicyInput) (*entity.VersionedPolicy, error)

	// ActivatePolicy makes one document the active one of its scope
	ActivatePolicy(ctx context.Context, scope entity.PolicyScope, policyID uuid.UUID) (*entity.VersionedPolicy, error)

	// SupersedePolicy deactivates the active document and inserts the next version as active
	SupersedePolicy(ctx context.Context, input *SupersedePolicyInput) (*entity.VersionedPolicy, error)

	// GetActivePolicy returns the active document of a scope, tagged with its source
	GetActivePolicy(ctx context.Context, scope entity.PolicyScope) (*entity.ActivePolicy, error)

	// GetServiceFeeRate returns the service-fee rate in force, falling back to the configured default
	GetServiceFeeRate(ctx context.Context) (*entity.ServiceFeeRate, error)

	// DeactivatePolicy clears the active flag; deactivating an inactive document succeeds
	DeactivatePolicy(ctx context.Context, scope entity.PolicyScope, policyID uuid.UUID) error

	// DeletePolicy removes an inactive document
	DeletePolicy(ctx context.Context, policyID uuid.UUID) error

	// ListPolicies lists a scope's documents, newest version first
	ListPolicies(ctx context.Context, scope entity.PolicyScope, page PageRequest) (*Page[*entity.VersionedPolicy], error)

	// GetPolicy returns one document version
	GetPolicy(ctx context.Context, policyID uuid.UUID) (*entity.VersionedPolicy, error)
}

// CreatePrivacyTypeInput is a new privacy type.
type CreatePrivacyTypeInput struct {
	Name        string
	Description string
	CreatedBy   uuid.UUID
}

// PrivacyTypeUsecase defines the interface for privacy types
type PrivacyTypeUsecase interface {
	// CreatePrivacyType stores an active privacy type
	CreatePrivacyType(ctx context.Context, input *CreatePrivacyTypeInput) (*entity.PrivacyType, error)

	// ListPrivacyTypes lists privacy types by name
	ListPrivacyTypes(ctx context.Context, onlyActive bool) ([]*entity.PrivacyType, error)

	// SetPrivacyTypeActive flips a type; deactivation also deactivates its privacy documents
	SetPrivacyTypeActive(ctx context.Context, id uuid.UUID, active bool) (*entity.PrivacyType, error)
}
