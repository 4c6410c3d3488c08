package config

import "fmt"

// Драйверы хранилища.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// StorageConfig выбирает хранилище учетных записей.
type StorageConfig struct {
	Driver string `env:"AUTH_STORAGE_DRIVER" env-default:"postgres"`
}

// Validate проверяет имя драйвера.
func (s *StorageConfig) Validate() error {
	switch s.Driver {
	case StoragePostgres, StorageMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
	}
}
