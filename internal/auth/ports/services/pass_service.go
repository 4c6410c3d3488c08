package services

import "context"

// PasswordService определяет операции хеширования и проверки паролей.
type PasswordService interface {
	// Hash хеширует пароль со стоимостью из конфигурации.
	Hash(ctx context.Context, password string) (string, error)

	// HashWithCost хеширует пароль с явной стоимостью.
	HashWithCost(ctx context.Context, password string, cost int) (string, error)

	// Verify сравнивает пароль с хешем за постоянное время.
	// Некорректный хеш дает false.
	Verify(ctx context.Context, password, hash string) bool
}
