// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for policy persistence.
var (
	// ErrPolicyNotFound is returned when a policy document is not found.
	ErrPolicyNotFound = errors.New("policy not found")
	// ErrActivePolicyExists is returned when a write would leave two active documents in one scope.
	ErrActivePolicyExists = errors.New("scope already has an active policy")
	// ErrPrivacyTypeNotFound is returned when a privacy type is not found.
	ErrPrivacyTypeNotFound = errors.New("privacy type not found")
	// ErrDuplicatePrivacyType is returned when a privacy type name is taken.
	ErrDuplicatePrivacyType = errors.New("privacy type already exists")
)

// PolicyRepository defines the interface for versioned policy documents.
type PolicyRepository interface {
	// Create persists a new document version.
	Create(ctx context.Context, policy *entity.VersionedPolicy) error

	// FindByID retrieves one document version.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VersionedPolicy, error)

	// FindActive retrieves the active document of a scope.
	FindActive(ctx context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error)

	// FindActiveForUpdate is FindActive holding a row lock until the transaction ends.
	FindActiveForUpdate(ctx context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error)

	// LockScope locks every document row of a scope until the transaction ends.
	LockScope(ctx context.Context, scope entity.PolicyScope) error

	// CountByScope returns how many documents a scope holds.
	CountByScope(ctx context.Context, scope entity.PolicyScope) (int64, error)

	// ListByScope lists a scope's documents, newest version first.
	ListByScope(ctx context.Context, scope entity.PolicyScope, offset, limit int) ([]*entity.VersionedPolicy, int64, error)

	// Activate marks one document active.
	Activate(ctx context.Context, id uuid.UUID, at time.Time) error

	// Deactivate marks one document inactive. It is a no-op for an inactive document.
	Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error

	// DeactivateScope deactivates every active document of a scope and returns how many changed.
	DeactivateScope(ctx context.Context, scope entity.PolicyScope, at time.Time) (int64, error)

	// Delete removes a document version.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PrivacyTypeRepository defines the interface for privacy types.
type PrivacyTypeRepository interface {
	// Create persists a new privacy type.
	Create(ctx context.Context, privacyType *entity.PrivacyType) error

	// FindByID retrieves a privacy type.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PrivacyType, error)

	// FindByIDForUpdate is FindByID holding a row lock until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PrivacyType, error)

	// List returns privacy types ordered by name.
	List(ctx context.Context, onlyActive bool) ([]*entity.PrivacyType, error)

	// SetActive flips the active flag.
	SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error
}
