package unitofwork

import "context"

// RepositoryFactory hands out units of work. The catalog runs on Postgres or,
// without a database, on the bundled in-memory catalog.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
