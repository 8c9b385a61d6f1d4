package unitofwork

import (
	"context"

	"aquatech-web/internal/repository/contract"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

// NewUnitOfWork is cheap; a unit of work lives for one request.
func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(ctx, f.db)
}

// MemoryRepositoryFactory hands out units of work over a shared in-memory
// catalog. Transactions are accepted and ignored.
type MemoryRepositoryFactory struct {
	products contract.ProductRepository
}

func NewMemoryRepositoryFactory(products contract.ProductRepository) RepositoryFactory {
	return &MemoryRepositoryFactory{products: products}
}

func (f *MemoryRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &memoryUnitOfWork{products: f.products}
}

type memoryUnitOfWork struct {
	products contract.ProductRepository
	active   bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return ErrTxActive
	}
	u.active = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.active {
		return ErrNoActiveTx
	}
	u.active = false
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	return u.Commit()
}

func (u *memoryUnitOfWork) ProductRepository() contract.ProductRepository {
	return u.products
}
