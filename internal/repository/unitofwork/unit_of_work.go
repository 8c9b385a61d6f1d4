package unitofwork

import (
	"context"
	"errors"
	"fmt"

	"aquatech-web/internal/repository/contract"
)

var (
	ErrTxActive   = errors.New("transaction already started")
	ErrNoActiveTx = errors.New("no active transaction")
)

// UnitOfWork scopes repositories to one request, optionally inside a
// transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
}

// Transact runs fn inside a transaction and commits when it returns nil.
func Transact(ctx context.Context, factory RepositoryFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return uow.Commit()
}
