package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

type policyRepository struct {
	acc accessor
}

func (repo *policyRepository) Create(_ context.Context, policy *entity.VersionedPolicy) error {
	return repo.acc.update(func(s *state) error {
		if policy.IsActive && activePolicyID(s, policy.ScopeID) != uuid.Nil {
			return repository.ErrActivePolicyExists
		}
		now := time.Now()
		if policy.CreatedAt.IsZero() {
			policy.CreatedAt = now
		}
		if policy.UpdatedAt.IsZero() {
			policy.UpdatedAt = now
		}
		s.policies[policy.ID] = *detachPolicy(*policy)

		return nil
	})
}

func (repo *policyRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.VersionedPolicy, error) {
	var found *entity.VersionedPolicy
	err := repo.acc.view(func(s *state) error {
		policy, ok := s.policies[id]
		if !ok {
			return repository.ErrPolicyNotFound
		}
		found = detachPolicy(policy)

		return nil
	})

	return found, err
}

func (repo *policyRepository) FindActive(_ context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error) {
	var found *entity.VersionedPolicy
	err := repo.acc.view(func(s *state) error {
		id := activePolicyID(s, scope)
		if id == uuid.Nil {
			return repository.ErrPolicyNotFound
		}
		found = detachPolicy(s.policies[id])

		return nil
	})

	return found, err
}

// FindActiveForUpdate needs no extra locking: transactions already run one at a time.
func (repo *policyRepository) FindActiveForUpdate(ctx context.Context, scope entity.PolicyScope) (*entity.VersionedPolicy, error) {
	return repo.FindActive(ctx, scope)
}

func (repo *policyRepository) LockScope(_ context.Context, _ entity.PolicyScope) error {
	return nil
}

func (repo *policyRepository) CountByScope(_ context.Context, scope entity.PolicyScope) (int64, error) {
	var count int64
	err := repo.acc.view(func(s *state) error {
		for _, policy := range s.policies {
			if policy.ScopeID == scope {
				count++
			}
		}

		return nil
	})

	return count, err
}

func (repo *policyRepository) ListByScope(_ context.Context, scope entity.PolicyScope, offset, limit int) ([]*entity.VersionedPolicy, int64, error) {
	var rows []*entity.VersionedPolicy
	err := repo.acc.view(func(s *state) error {
		for _, policy := range s.policies {
			if policy.ScopeID == scope {
				rows = append(rows, detachPolicy(policy))
			}
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(rows, func(a, b *entity.VersionedPolicy) int {
		return cmp.Or(
			cmp.Compare(b.Version, a.Version),
			b.CreatedAt.Compare(a.CreatedAt),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})

	return paginate(rows, offset, limit), int64(len(rows)), nil
}

func (repo *policyRepository) Activate(_ context.Context, id uuid.UUID, at time.Time) error {
	return repo.acc.update(func(s *state) error {
		policy, ok := s.policies[id]
		if !ok {
			return repository.ErrPolicyNotFound
		}
		if current := activePolicyID(s, policy.ScopeID); current != uuid.Nil && current != id {
			return repository.ErrActivePolicyExists
		}
		policy.IsActive = true
		policy.ActivatedAt = &at
		policy.UpdatedAt = at
		s.policies[id] = policy

		return nil
	})
}

func (repo *policyRepository) Deactivate(_ context.Context, id uuid.UUID, at time.Time) error {
	return repo.acc.update(func(s *state) error {
		policy, ok := s.policies[id]
		if !ok || !policy.IsActive {
			return nil
		}
		policy.IsActive = false
		policy.UpdatedAt = at
		s.policies[id] = policy

		return nil
	})
}

func (repo *policyRepository) DeactivateScope(_ context.Context, scope entity.PolicyScope, at time.Time) (int64, error) {
	var changed int64
	err := repo.acc.update(func(s *state) error {
		for id, policy := range s.policies {
			if policy.ScopeID != scope || !policy.IsActive {
				continue
			}
			policy.IsActive = false
			policy.UpdatedAt = at
			s.policies[id] = policy
			changed++
		}

		return nil
	})

	return changed, err
}

func (repo *policyRepository) Delete(_ context.Context, id uuid.UUID) error {
	return repo.acc.update(func(s *state) error {
		if _, ok := s.policies[id]; !ok {
			return repository.ErrPolicyNotFound
		}
		delete(s.policies, id)

		return nil
	})
}

func activePolicyID(s *state, scope entity.PolicyScope) uuid.UUID {
	for id, policy := range s.policies {
		if policy.ScopeID == scope && policy.IsActive {
			return id
		}
	}

	return uuid.Nil
}
