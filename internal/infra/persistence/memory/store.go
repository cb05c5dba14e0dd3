// Package memory is an in-process implementation of the persistence layer.
// It backs local development and the usecase tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

// state is one immutable-by-convention snapshot of every table. Rows are stored by value
// and detached on every write and read, so a shallow map copy is an isolated snapshot.
type state struct {
	policies     map[uuid.UUID]entity.VersionedPolicy
	privacyTypes map[uuid.UUID]entity.PrivacyType
	discounts    map[string]entity.Discount
	orders       map[uuid.UUID]entity.Order
	history      map[uuid.UUID][]entity.OrderStatusHistory
	devices      map[uuid.UUID]entity.UserDevice
}

func newState() *state {
	return &state{
		policies:     make(map[uuid.UUID]entity.VersionedPolicy),
		privacyTypes: make(map[uuid.UUID]entity.PrivacyType),
		discounts:    make(map[string]entity.Discount),
		orders:       make(map[uuid.UUID]entity.Order),
		history:      make(map[uuid.UUID][]entity.OrderStatusHistory),
		devices:      make(map[uuid.UUID]entity.UserDevice),
	}
}

func (s *state) clone() *state {
	history := make(map[uuid.UUID][]entity.OrderStatusHistory, len(s.history))
	for id, rows := range s.history {
		history[id] = append([]entity.OrderStatusHistory(nil), rows...)
	}

	return &state{
		policies:     maps.Clone(s.policies),
		privacyTypes: maps.Clone(s.privacyTypes),
		discounts:    maps.Clone(s.discounts),
		orders:       maps.Clone(s.orders),
		history:      history,
		devices:      maps.Clone(s.devices),
	}
}

// accessor runs fn against a state. Store-bound accessors lock; transaction-bound ones
// already hold the store lock.
type accessor interface {
	view(fn func(s *state) error) error
	update(fn func(s *state) error) error
}

// Store owns the committed state.
type Store struct {
	mu      sync.RWMutex
	current *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{current: newState()}
}

func (st *Store) view(fn func(s *state) error) error {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return fn(st.current)
}

func (st *Store) update(fn func(s *state) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current.clone()
	if err := fn(next); err != nil {
		return err
	}
	st.current = next

	return nil
}

// txState is a working copy owned by one transaction.
type txState struct {
	s *state
}

func (tx *txState) view(fn func(s *state) error) error {
	return fn(tx.s)
}

func (tx *txState) update(fn func(s *state) error) error {
	return fn(tx.s)
}

type transactionManager struct {
	store *Store
}

// NewTransactionManager serialises transactions over the store. Each transaction works on a
// copy that replaces the committed state only when fn succeeds.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return tm.store.update(func(s *state) error {
		return fn(&repositoryFactory{acc: &txState{s: s}})
	})
}

type repositoryFactory struct {
	acc accessor
}

func (f *repositoryFactory) NewPolicyRepository() repository.PolicyRepository {
	return &policyRepository{acc: f.acc}
}

func (f *repositoryFactory) NewPrivacyTypeRepository() repository.PrivacyTypeRepository {
	return &privacyTypeRepository{acc: f.acc}
}

func (f *repositoryFactory) NewDiscountRepository() repository.DiscountRepository {
	return &discountRepository{acc: f.acc}
}

func (f *repositoryFactory) NewOrderRepository() repository.OrderRepository {
	return &orderRepository{acc: f.acc}
}

// NewPolicyRepository returns a repository whose calls each run as their own transaction.
func NewPolicyRepository(store *Store) repository.PolicyRepository {
	return &policyRepository{acc: store}
}

// NewPrivacyTypeRepository returns a store-bound privacy type repository.
func NewPrivacyTypeRepository(store *Store) repository.PrivacyTypeRepository {
	return &privacyTypeRepository{acc: store}
}

// NewDiscountRepository returns a store-bound discount repository.
func NewDiscountRepository(store *Store) repository.DiscountRepository {
	return &discountRepository{acc: store}
}

// NewOrderRepository returns a store-bound order repository.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{acc: store}
}

// NewOrderAnalyticsRepository returns a store-bound analytics repository.
func NewOrderAnalyticsRepository(store *Store) repository.OrderAnalyticsRepository {
	return &orderAnalyticsRepository{acc: store}
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return rows
}
