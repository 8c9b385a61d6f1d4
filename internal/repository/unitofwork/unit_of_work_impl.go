package unitofwork

import (
	"context"

	"aquatech-web/internal/repository/contract"
	"aquatech-web/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUnitOfWork binds ctx to every query made outside a transaction.
func NewUnitOfWork(ctx context.Context, db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db.WithContext(ctx)}
}

func (u *UnitOfWorkImpl) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) end(finish func(*gorm.DB) *gorm.DB) error {
	if u.tx == nil {
		return ErrNoActiveTx
	}
	err := finish(u.tx).Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Commit() error {
	return u.end(func(tx *gorm.DB) *gorm.DB { return tx.Commit() })
}

func (u *UnitOfWorkImpl) Rollback() error {
	return u.end(func(tx *gorm.DB) *gorm.DB { return tx.Rollback() })
}

func (u *UnitOfWorkImpl) ProductRepository() contract.ProductRepository {
	return implementation.NewProductRepository(u.conn())
}
