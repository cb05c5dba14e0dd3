// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object is also a *gorm.DB
}

// NewPolicyRepository creates a policy repository bound to the transaction.
func (f *gormRepositoryFactory) NewPolicyRepository() repository.PolicyRepository {
	return NewPolicyRepository(f.tx)
}

// NewPrivacyTypeRepository creates a privacy type repository bound to the transaction.
func (f *gormRepositoryFactory) NewPrivacyTypeRepository() repository.PrivacyTypeRepository {
	return NewPrivacyTypeRepository(f.tx)
}

// NewDiscountRepository creates a discount repository bound to the transaction.
func (f *gormRepositoryFactory) NewDiscountRepository() repository.DiscountRepository {
	return NewDiscountRepository(f.tx)
}

// NewOrderRepository creates an order repository bound to the transaction.
func (f *gormRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction on the primary.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Clauses(dbresolver.Write).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	// Roll back on panic, then re-panic so the recover middleware can report it.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// Return the original, more meaningful business error.
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
