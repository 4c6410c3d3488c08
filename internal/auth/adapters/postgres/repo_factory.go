// Package postgres содержит хранилище учетных записей на Postgres.
package postgres

import (
	"time"

	"gocollab/internal/auth/ports/repositories"
)

// RepositoryFactory создает репозитории Postgres.
type RepositoryFactory struct {
	accountRepo repositories.AccountRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface, queryTimeout time.Duration) *RepositoryFactory {
	return &RepositoryFactory{
		accountRepo: NewAccountRepository(pool, queryTimeout),
	}
}

// AccountRepository возвращает репозиторий учетных записей.
func (f *RepositoryFactory) AccountRepository() repositories.AccountRepository {
	return f.accountRepo
}
