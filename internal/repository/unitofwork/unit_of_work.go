package unitofwork

import (
	"context"

	"hybrid-search-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	VectorIndexRepository() contract.VectorIndexRepository
	MigrationRepository() contract.MigrationRepository
	CacheEntryRepository() contract.CacheEntryRepository
}
